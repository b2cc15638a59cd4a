package handlers

import (
	"net/http"
	"strconv"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/gin-gonic/gin"
)

type BufferHandler struct {
	service *service.BufferService
}

func NewBufferHandler(service *service.BufferService) *BufferHandler {
	return &BufferHandler{service: service}
}

type recalcRequest struct {
	OrgID        string `json:"org_id"`
	WarehouseID  string `json:"warehouse_id"`
	LookbackDays int    `json:"lookback_days"`
}

// Recalc recomputes every buffer of a warehouse from recent demand.
func (h *BufferHandler) Recalc(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req recalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("body", "invalid JSON payload"))
		return
	}
	if err := checkTenant(org, req.OrgID); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.Recalc(c.Request.Context(), org, req.WarehouseID, req.LookbackDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Runs returns the recent recalculation history for a warehouse.
func (h *BufferHandler) Runs(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 {
		limit = v
	}

	runs, err := h.service.Runs(c.Request.Context(), org, c.Query("warehouse_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if runs == nil {
		runs = []domain.RecalcRun{}
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}
