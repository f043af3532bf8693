package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/service"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

// SchedulerHandler exposes solve/shift/shortage/history endpoints for one
// campaign's tutoring-shift schedule.
type SchedulerHandler struct {
	service *service.SchedulerService
}

// NewSchedulerHandler constructs a scheduler handler.
func NewSchedulerHandler(svc *service.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// Solve godoc
// @Summary Run a solve for a campaign
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param payload body dto.SolveRequest false "Optional weight override"
// @Success 200 {object} response.Envelope
// @Router /campaigns/{id}/solve [post]
func (h *SchedulerHandler) Solve(c *gin.Context) {
	var req dto.SolveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	result, err := h.service.Solve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Shifts godoc
// @Summary Get a campaign's shift schedule
// @Tags Scheduler
// @Produce json
// @Param id path string true "Campaign ID"
// @Param solveId query string false "Solve ID, defaults to the latest"
// @Success 200 {object} response.Envelope
// @Router /campaigns/{id}/shifts [get]
func (h *SchedulerHandler) Shifts(c *gin.Context) {
	result, err := h.service.Shifts(c.Request.Context(), c.Param("id"), c.Query("solveId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Shortages godoc
// @Summary Get a campaign's unmet subject demand
// @Tags Scheduler
// @Produce json
// @Param id path string true "Campaign ID"
// @Param solveId query string false "Solve ID, defaults to the latest"
// @Success 200 {object} response.Envelope
// @Router /campaigns/{id}/shortages [get]
func (h *SchedulerHandler) Shortages(c *gin.Context) {
	result, err := h.service.Shortages(c.Request.Context(), c.Param("id"), c.Query("solveId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// History godoc
// @Summary List a campaign's solve history
// @Tags Scheduler
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Envelope
// @Router /campaigns/{id}/solves [get]
func (h *SchedulerHandler) History(c *gin.Context) {
	result, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
