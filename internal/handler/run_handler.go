package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/repository"
	"github.com/jengzang/records-heatmap/internal/service"
	"github.com/jengzang/records-heatmap/pkg/response"
)

// RunHandler handles HTTP requests for the run catalog
type RunHandler struct {
	catalog *service.CatalogService
}

// NewRunHandler creates a new run handler
func NewRunHandler(catalog *service.CatalogService) *RunHandler {
	return &RunHandler{catalog: catalog}
}

// ListRuns handles GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	var filter models.RunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.catalog.ListRuns(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.catalog.GetRun(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, run)
}

// GetLevels handles GET /api/v1/runs/:id/levels?level=
func (h *RunHandler) GetLevels(c *gin.Context) {
	outputs, err := h.catalog.GetLevelOutputs(c.Param("id"), c.Query("level"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  outputs,
		"count": len(outputs),
	})
}

// GetIssues handles GET /api/v1/runs/:id/issues
func (h *RunHandler) GetIssues(c *gin.Context) {
	issues, err := h.catalog.GetIssues(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  issues,
		"count": len(issues),
	})
}

func (h *RunHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrRunNotFound) {
		response.NotFound(c, "Run not found")
		return
	}
	response.InternalError(c, err.Error())
}
