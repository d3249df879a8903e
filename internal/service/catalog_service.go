package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/records-heatmap/internal/heatmap"
	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/render"
	"github.com/jengzang/records-heatmap/internal/repository"
)

// CatalogService records renderer runs and serves them back
type CatalogService struct {
	repo *repository.RunRepository
	now  func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo *repository.RunRepository) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

// StartRun registers a run before processing begins
func (s *CatalogService) StartRun(run models.Run) (*models.Run, error) {
	run.ID = uuid.NewString()
	run.Status = models.RunStatusRunning
	run.StartedAt = s.now()
	if err := s.repo.Create(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// CompleteRun stores the pipeline result and the files the renderer wrote
func (s *CatalogService) CompleteRun(run *models.Run, result *heatmap.Result, written []render.Written) error {
	completed := s.now()
	run.CompletedAt = &completed
	run.Alpha = result.Alpha
	run.RecordCount = result.RecordCount
	run.ProcessedRecords = result.Processed
	run.SkippedRecords = result.Skipped()
	run.LevelCount = len(result.Levels)

	rects := make(map[string]*heatmap.LevelResult, len(result.Levels))
	for _, lr := range result.Levels {
		rects[lr.Level] = lr
	}

	outputs := make([]models.LevelOutput, 0, len(written))
	run.BytesWritten = 0
	for _, w := range written {
		run.BytesWritten += w.Bytes
		o := models.LevelOutput{RunID: run.ID, Level: w.Level, Name: w.Name, Path: w.Path, Bytes: w.Bytes}
		if lr, ok := rects[w.Level]; ok {
			o.MinX, o.MinY = lr.Rect.X.Lo, lr.Rect.Y.Lo
			o.MaxX, o.MaxY = lr.Rect.X.Hi, lr.Rect.Y.Hi
			o.Records = lr.Records
		}
		outputs = append(outputs, o)
	}

	issues := make([]models.RecordIssue, 0, len(result.Issues))
	for _, i := range result.Issues {
		issues = append(issues, models.RecordIssue{
			RunID: run.ID, Ref: i.Ref, Level: i.Level, Kind: i.Kind, Reason: i.Err.Error(),
		})
	}

	run.Status = models.RunStatusCompleted
	if run.SkippedRecords > 0 || len(issues) > 0 {
		run.Status = models.RunStatusPartial
	}

	return s.repo.Complete(run, outputs, issues)
}

// FailRun marks a run as failed with the error that stopped it
func (s *CatalogService) FailRun(run *models.Run, cause error) error {
	return s.repo.MarkFailed(run.ID, cause.Error(), s.now())
}

// ListRuns retrieves runs with pagination
func (s *CatalogService) ListRuns(filter models.RunFilter) (*models.RunsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 500 {
		filter.PageSize = 50
	}

	runs, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.RunsResponse{
		Data:       runs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetRun retrieves a single run
func (s *CatalogService) GetRun(id string) (*models.Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", repository.ErrRunNotFound, id)
	}
	return s.repo.GetByID(id)
}

// GetLevelOutputs retrieves the images of a run, optionally for one level
func (s *CatalogService) GetLevelOutputs(runID, level string) ([]models.LevelOutput, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}
	return s.repo.ListOutputs(runID, level)
}

// GetIssues retrieves the records and levels a run skipped
func (s *CatalogService) GetIssues(runID string) ([]models.RecordIssue, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}
	return s.repo.ListIssues(runID)
}
