package models

import "time"

// Run represents one renderer invocation stored in the catalog
type Run struct {
	ID string `json:"id" db:"id"` // UUID

	// Inputs
	InputDir     string  `json:"input_dir" db:"input_dir"`
	OutputDir    string  `json:"output_dir" db:"output_dir"`
	CanvasWidth  int     `json:"canvas_width" db:"canvas_width"`
	CanvasHeight int     `json:"canvas_height" db:"canvas_height"`
	AutoBounds   bool    `json:"auto_bounds" db:"auto_bounds"`
	LevelKey     string  `json:"level_key" db:"level_key"`
	Alpha        float64 `json:"alpha" db:"alpha"`

	// Results
	Status           string `json:"status" db:"status"` // running, completed, partial, failed
	RecordCount      int    `json:"record_count" db:"record_count"`
	ProcessedRecords int    `json:"processed_records" db:"processed_records"`
	SkippedRecords   int    `json:"skipped_records" db:"skipped_records"`
	LevelCount       int    `json:"level_count" db:"level_count"`
	BytesWritten     int64  `json:"bytes_written" db:"bytes_written"`
	ErrorMessage     string `json:"error_message,omitempty" db:"error_message"`

	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial" // Some records or levels were skipped
	RunStatusFailed    = "failed"
)

// LevelOutput is one image written for a level during a run
type LevelOutput struct {
	ID    int64  `json:"id" db:"id"`
	RunID string `json:"run_id" db:"run_id"`
	Level string `json:"level" db:"level"`
	Name  string `json:"name" db:"name"` // paths, heatmap, summarized, death, event_<name>
	Path  string `json:"path" db:"path"`
	Bytes int64  `json:"bytes" db:"bytes"`

	// Resolved world rectangle for the level
	MinX float64 `json:"min_x" db:"min_x"`
	MinY float64 `json:"min_y" db:"min_y"`
	MaxX float64 `json:"max_x" db:"max_x"`
	MaxY float64 `json:"max_y" db:"max_y"`

	Records int `json:"records" db:"records"` // Records blended into this level
}

// RecordIssue is a record or level the run could not render
type RecordIssue struct {
	ID     int64  `json:"id" db:"id"`
	RunID  string `json:"run_id" db:"run_id"`
	Ref    string `json:"ref" db:"ref"`
	Level  string `json:"level,omitempty" db:"level"`
	Kind   string `json:"kind" db:"kind"` // malformed, degenerate_bounds, level_rejected
	Reason string `json:"reason" db:"reason"`
}

// RecordIssue kinds
const (
	IssueMalformed        = "malformed"
	IssueDegenerateBounds = "degenerate_bounds"
	IssueLevelRejected    = "level_rejected"
)

// RunFilter represents query parameters for listing runs
type RunFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// RunsResponse represents a paginated list of runs
type RunsResponse struct {
	Data       []Run `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}
