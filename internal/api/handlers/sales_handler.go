package handlers

import (
	"net/http"
	"time"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	service *service.SalesService
}

func NewSalesHandler(service *service.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

type rebuildRequest struct {
	OrgID string `json:"org_id"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// RebuildDailySales regenerates the daily rollups for a date range, default
// the trailing aggregation window.
func (h *SalesHandler) RebuildDailySales(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req rebuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, domain.NewValidationError("body", "invalid JSON payload"))
			return
		}
	}
	if err := checkTenant(org, req.OrgID); err != nil {
		respondError(c, err)
		return
	}

	rng, err := parseRange(req.From, req.To)
	if err != nil {
		respondError(c, err)
		return
	}

	applied, err := h.service.RebuildDailySales(c.Request.Context(), org, rng)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": applied.From.Format("2006-01-02"),
		"to":   applied.To.Format("2006-01-02"),
	})
}

// parseRange builds an explicit date range from body fields. Both empty
// means "use the default window"; one-sided ranges are rejected.
func parseRange(from, to string) (*domain.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, domain.NewValidationError("range", "from and to are required together")
	}

	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, domain.NewValidationError("from", "must be YYYY-MM-DD")
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, domain.NewValidationError("to", "must be YYYY-MM-DD")
	}

	return &domain.DateRange{From: f, To: t}, nil
}
