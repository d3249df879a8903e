package models

// Point is a single world-space telemetry sample
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"` // Ignored by the renderer
}

// EventTrack holds the points at which one named event fired during a session
type EventTrack struct {
	Points []Point `json:"points"`
}

// Record is one session's telemetry as read from a per-session file
type Record struct {
	// Ref identifies the record in logs and reports (usually the file name)
	Ref string `json:"-"`

	// Level is resolved from the configured level key, not from a fixed field
	Level string `json:"-"`

	// Points is nil when the field was absent and empty when it was "[]"
	Points []Point `json:"points"`

	// Declared level bounds, corners may be swapped
	LevelBoundsMin *Point `json:"levelBoundsMin,omitempty"`
	LevelBoundsMax *Point `json:"levelBoundsMax,omitempty"`

	Events map[string]EventTrack `json:"events,omitempty"`
}

// HasDeclaredBounds reports whether both declared bounds corners are present
func (r *Record) HasDeclaredBounds() bool {
	return r.LevelBoundsMin != nil && r.LevelBoundsMax != nil
}
