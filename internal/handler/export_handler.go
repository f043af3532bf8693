package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/service"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// ExportHandler renders a campaign's latest solve into a downloadable
// CSV/PDF file and serves signed download links.
type ExportHandler struct {
	scheduler *service.SchedulerService
	export    *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(scheduler *service.SchedulerService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{scheduler: scheduler, export: export}
}

// Export godoc
// @Summary Render a campaign's solve to a downloadable file
// @Tags Export
// @Produce json
// @Param id path string true "Campaign ID"
// @Param solveId query string false "Solve ID, defaults to the latest"
// @Param target query string false "teachers|students|shortages" default(teachers)
// @Param format query string false "csv|pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Router /campaigns/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	target := service.ExportTarget(c.DefaultQuery("target", string(service.ExportTargetTeachers)))
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	campaignID := c.Param("id")
	solveID := c.Query("solveId")

	solve, err := h.scheduler.Shifts(c.Request.Context(), campaignID, solveID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.export.Render(c.Request.Context(), service.ExportJob{
		CampaignID: campaignID,
		SolveID:    solve.SolveID,
		Target:     target,
		Format:     format,
		Solve:      solve,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a previously rendered export by its signed token
// @Tags Export
// @Param token path string true "Signed export token"
// @Success 200 {file} binary
// @Success 202 {object} response.Envelope "render still in progress"
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	path, ready, err := h.export.Open(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export not found"))
		return
	}
	if !ready {
		response.JSON(c, http.StatusAccepted, gin.H{"status": "pending"}, nil)
		return
	}
	c.FileAttachment(path, path)
}
