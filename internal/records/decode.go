package records

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/jengzang/records-heatmap/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder turns raw session files into validated records
type Decoder struct {
	// LevelKey is a gjson path to the level identifier ("level", "meta.map")
	LevelKey string

	// RequireBounds rejects records without levelBoundsMin/levelBoundsMax.
	// Set when bounds come from the records rather than the corpus.
	RequireBounds bool
}

// Decode parses and validates one record. ref names it in errors.
func (d Decoder) Decode(ref string, data []byte) (*models.Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, malformed(ref, ErrInvalidJSON)
	}

	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, malformed(ref, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	rec.Ref = ref

	level := gjson.GetBytes(data, d.LevelKey)
	if !level.Exists() || level.Type == gjson.Null || strings.TrimSpace(level.String()) == "" {
		return nil, malformed(ref, fmt.Errorf("%w %q", ErrMissingLevel, d.LevelKey))
	}
	rec.Level = level.String()

	if err := Validate(&rec, d.RequireBounds); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate checks the fields the renderer depends on. It is applied to
// decoded records and to records handed over in memory alike.
func Validate(rec *models.Record, requireBounds bool) error {
	if strings.TrimSpace(rec.Level) == "" {
		return malformed(rec.Ref, ErrMissingLevel)
	}
	if rec.Points == nil {
		return malformed(rec.Ref, ErrMissingPoints)
	}
	if requireBounds && !rec.HasDeclaredBounds() {
		return malformed(rec.Ref, ErrMissingBounds)
	}
	if err := checkFinite(rec); err != nil {
		return malformed(rec.Ref, err)
	}
	return nil
}

func checkFinite(rec *models.Record) error {
	check := func(where string, pts ...models.Point) error {
		for i, p := range pts {
			if !finite(p.X) || !finite(p.Y) {
				return fmt.Errorf("%w in %s[%d]", ErrNonFinite, where, i)
			}
		}
		return nil
	}
	if err := check("points", rec.Points...); err != nil {
		return err
	}
	if rec.LevelBoundsMin != nil {
		if err := check("levelBoundsMin", *rec.LevelBoundsMin); err != nil {
			return err
		}
	}
	if rec.LevelBoundsMax != nil {
		if err := check("levelBoundsMax", *rec.LevelBoundsMax); err != nil {
			return err
		}
	}
	for name, ev := range rec.Events {
		if err := check("events."+name, ev.Points...); err != nil {
			return err
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
