package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/records-heatmap/internal/database"
	"github.com/jengzang/records-heatmap/internal/models"
)

// ErrRunNotFound is returned when a run id is unknown
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for the run catalog
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run
func (r *RunRepository) Create(run *models.Run) error {
	query := `
		INSERT INTO runs (
			id, input_dir, output_dir, canvas_width, canvas_height,
			auto_bounds, level_key, alpha, status, record_count, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.InputDir,
		run.OutputDir,
		run.CanvasWidth,
		run.CanvasHeight,
		run.AutoBounds,
		run.LevelKey,
		run.Alpha,
		run.Status,
		run.RecordCount,
		run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Complete stores the outcome of a run together with its outputs and issues
func (r *RunRepository) Complete(run *models.Run, outputs []models.LevelOutput, issues []models.RecordIssue) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		var completedAt any
		if run.CompletedAt != nil {
			completedAt = run.CompletedAt.UTC()
		}

		res, err := tx.Exec(`
			UPDATE runs
			SET status = ?, alpha = ?, record_count = ?, processed_records = ?,
			    skipped_records = ?, level_count = ?, bytes_written = ?,
			    error_message = ?, completed_at = ?
			WHERE id = ?
		`, run.Status, run.Alpha, run.RecordCount, run.ProcessedRecords,
			run.SkippedRecords, run.LevelCount, run.BytesWritten,
			run.ErrorMessage, completedAt, run.ID)
		if err != nil {
			return fmt.Errorf("failed to update run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRunNotFound
		}

		for _, o := range outputs {
			_, err := tx.Exec(`
				INSERT INTO level_outputs (run_id, level, name, path, bytes, min_x, min_y, max_x, max_y, records)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, run.ID, o.Level, o.Name, o.Path, o.Bytes, o.MinX, o.MinY, o.MaxX, o.MaxY, o.Records)
			if err != nil {
				return fmt.Errorf("failed to insert level output: %w", err)
			}
		}

		for _, i := range issues {
			_, err := tx.Exec(`
				INSERT INTO record_issues (run_id, ref, level, kind, reason)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, i.Ref, i.Level, i.Kind, i.Reason)
			if err != nil {
				return fmt.Errorf("failed to insert record issue: %w", err)
			}
		}
		return nil
	})
}

const runColumns = `id, input_dir, output_dir, canvas_width, canvas_height, auto_bounds,
	level_key, alpha, status, record_count, processed_records, skipped_records,
	level_count, bytes_written, error_message, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var completedAt sql.NullTime
	err := row.Scan(
		&run.ID, &run.InputDir, &run.OutputDir, &run.CanvasWidth, &run.CanvasHeight, &run.AutoBounds,
		&run.LevelKey, &run.Alpha, &run.Status, &run.RecordCount, &run.ProcessedRecords, &run.SkippedRecords,
		&run.LevelCount, &run.BytesWritten, &run.ErrorMessage, &run.StartedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

// GetByID retrieves a single run
func (r *RunRepository) GetByID(id string) (*models.Run, error) {
	run, err := scanRun(r.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List retrieves runs, newest first, with pagination
func (r *RunRepository) List(filter models.RunFilter) ([]models.Run, int64, error) {
	where := ""
	var args []any
	if filter.Status != "" {
		where = " WHERE status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := "SELECT " + runColumns + " FROM runs" + where + " ORDER BY started_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.Query(query, append(args, filter.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, total, rows.Err()
}

// ListOutputs retrieves the images written by a run, optionally for one level
func (r *RunRepository) ListOutputs(runID, level string) ([]models.LevelOutput, error) {
	query := `SELECT id, run_id, level, name, path, bytes, min_x, min_y, max_x, max_y, records
		FROM level_outputs WHERE run_id = ?`
	args := []any{runID}
	if level != "" {
		query += " AND level = ?"
		args = append(args, level)
	}
	query += " ORDER BY level, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query level outputs: %w", err)
	}
	defer rows.Close()

	outputs := []models.LevelOutput{}
	for rows.Next() {
		var o models.LevelOutput
		if err := rows.Scan(&o.ID, &o.RunID, &o.Level, &o.Name, &o.Path, &o.Bytes,
			&o.MinX, &o.MinY, &o.MaxX, &o.MaxY, &o.Records); err != nil {
			return nil, fmt.Errorf("failed to scan level output: %w", err)
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}

// ListIssues retrieves the records and levels a run skipped
func (r *RunRepository) ListIssues(runID string) ([]models.RecordIssue, error) {
	rows, err := r.db.Query(`SELECT id, run_id, ref, level, kind, reason
		FROM record_issues WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record issues: %w", err)
	}
	defer rows.Close()

	issues := []models.RecordIssue{}
	for rows.Next() {
		var i models.RecordIssue
		if err := rows.Scan(&i.ID, &i.RunID, &i.Ref, &i.Level, &i.Kind, &i.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan record issue: %w", err)
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// MarkFailed records a run that aborted before completing
func (r *RunRepository) MarkFailed(id, message string, at time.Time) error {
	_, err := r.db.Exec(`UPDATE runs SET status = ?, error_message = ?, completed_at = ? WHERE id = ?`,
		models.RunStatusFailed, message, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark run as failed: %w", err)
	}
	return nil
}
