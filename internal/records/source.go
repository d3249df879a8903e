// Package records discovers and decodes per-session telemetry files.
package records

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/records-heatmap/internal/models"
)

// VisitFunc receives each record in corpus order. err is non-nil when the
// record could not be read or decoded; rec is nil in that case.
// Returning an error stops the walk.
type VisitFunc func(ref string, rec *models.Record, err error) error

// Source is an ordered, re-readable record corpus
type Source interface {
	// Len returns the number of records in the corpus
	Len() int
	// Walk visits every record in a stable order
	Walk(ctx context.Context, fn VisitFunc) error
}

// FileSource reads one record per file from a directory
type FileSource struct {
	dir     string
	files   []string
	decoder Decoder
}

// NewFileSource lists files in dir whose extension matches ext
// case-insensitively. Subdirectories are not descended into.
func NewFileSource(dir, ext string, decoder Decoder) (*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list record directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		files = append(files, e.Name())
	}

	return &FileSource{dir: dir, files: files, decoder: decoder}, nil
}

// Len returns the number of record files found
func (s *FileSource) Len() int {
	return len(s.files)
}

// Walk reads and decodes each file in name order
func (s *FileSource) Walk(ctx context.Context, fn VisitFunc) error {
	for _, name := range s.files {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if err := fn(name, nil, fmt.Errorf("failed to read record: %w", err)); err != nil {
				return err
			}
			continue
		}

		rec, decodeErr := s.decoder.Decode(name, data)
		if err := fn(name, rec, decodeErr); err != nil {
			return err
		}
	}
	return nil
}

// MemorySource serves already decoded records, mostly for tests and
// callers that build records programmatically.
type MemorySource struct {
	records []*models.Record
}

// NewMemorySource wraps the records in the given order
func NewMemorySource(recs ...*models.Record) *MemorySource {
	return &MemorySource{records: recs}
}

// Len returns the number of records
func (s *MemorySource) Len() int {
	return len(s.records)
}

// Walk visits the records in order
func (s *MemorySource) Walk(ctx context.Context, fn VisitFunc) error {
	for i, rec := range s.records {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref := rec.Ref
		if ref == "" {
			ref = fmt.Sprintf("record-%d", i)
		}
		if err := fn(ref, rec, nil); err != nil {
			return err
		}
	}
	return nil
}
