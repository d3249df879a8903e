package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jengzang/records-heatmap/internal/database"
	"github.com/jengzang/records-heatmap/internal/repository"
)

func newCatalog(t *testing.T) *CatalogService {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewCatalogService(repository.NewRunRepository(conn))
}

// clock returns a time source advancing one minute per call
func clock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}
