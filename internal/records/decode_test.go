package records

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	d := Decoder{LevelKey: "level", RequireBounds: true}
	data := []byte("\xEF\xBB\xBF" + `{
		"level": "Dungeon_01",
		"points": [{"x": 1, "y": 2, "z": 3}, {"x": -4.5, "y": 6}],
		"levelBoundsMin": {"x": 100, "y": 0},
		"levelBoundsMax": {"x": -100, "y": 50},
		"events": {"kill": {"points": [{"x": 0, "y": 0}]}, "loot": {"points": []}}
	}`)

	rec, err := d.Decode("session.json", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Ref != "session.json" || rec.Level != "Dungeon_01" {
		t.Errorf("ref/level = %q/%q", rec.Ref, rec.Level)
	}
	if len(rec.Points) != 2 || rec.Points[1].X != -4.5 {
		t.Errorf("points = %+v", rec.Points)
	}
	if !rec.HasDeclaredBounds() || rec.LevelBoundsMin.X != 100 {
		t.Errorf("bounds = %+v %+v", rec.LevelBoundsMin, rec.LevelBoundsMax)
	}
	if len(rec.Events) != 2 || len(rec.Events["kill"].Points) != 1 {
		t.Errorf("events = %+v", rec.Events)
	}
}

func TestDecodeLevelKeyPath(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data string
		want string
	}{
		{"nested", "meta.map", `{"meta": {"map": "Caves"}, "points": []}`, "Caves"},
		{"numeric", "levelIndex", `{"levelIndex": 3, "points": []}`, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decoder{LevelKey: tt.key}.Decode("r", []byte(tt.data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if rec.Level != tt.want {
				t.Errorf("Level = %q, want %q", rec.Level, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name          string
		requireBounds bool
		data          string
		want          error
	}{
		{"invalid json", false, `{"level": "a", "points": [`, ErrInvalidJSON},
		{"wrong types", false, `{"level": "a", "points": "nope"}`, ErrInvalidJSON},
		{"missing level", false, `{"points": []}`, ErrMissingLevel},
		{"null level", false, `{"level": null, "points": []}`, ErrMissingLevel},
		{"blank level", false, `{"level": "  ", "points": []}`, ErrMissingLevel},
		{"missing points", false, `{"level": "a"}`, ErrMissingPoints},
		{"null points", false, `{"level": "a", "points": null}`, ErrMissingPoints},
		{"missing bounds", true, `{"level": "a", "points": []}`, ErrMissingBounds},
		{"half bounds", true, `{"level": "a", "points": [], "levelBoundsMin": {"x": 0, "y": 0}}`, ErrMissingBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decoder{LevelKey: "level", RequireBounds: tt.requireBounds}.Decode("bad.json", []byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var mErr *MalformedRecordError
			if !errors.As(err, &mErr) || mErr.Ref != "bad.json" {
				t.Errorf("err = %v, want *MalformedRecordError for bad.json", err)
			}
		})
	}
}

func TestDecodeEmptyPointsIsValid(t *testing.T) {
	rec, err := Decoder{LevelKey: "level"}.Decode("r", []byte(`{"level": "a", "points": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Points == nil || len(rec.Points) != 0 {
		t.Errorf("points = %#v, want empty non-nil slice", rec.Points)
	}
}
