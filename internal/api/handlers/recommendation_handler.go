package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	service *service.RecommendationService
	export  *service.ExportService
}

func NewRecommendationHandler(service *service.RecommendationService, export *service.ExportService) *RecommendationHandler {
	return &RecommendationHandler{service: service, export: export}
}

func (h *RecommendationHandler) parseFilter(c *gin.Context) (domain.RecommendationFilter, error) {
	org, err := orgID(c)
	if err != nil {
		return domain.RecommendationFilter{}, err
	}

	filter := domain.RecommendationFilter{
		OrgID:       org,
		WarehouseID: c.Query("warehouse_id"),
	}

	if date, err := parseDate(c.Query("date")); err != nil {
		return domain.RecommendationFilter{}, err
	} else {
		filter.Date = date
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	return filter, nil
}

// List returns one page of replenishment recommendations.
func (h *RecommendationHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Summary returns zone tallies for a warehouse.
func (h *RecommendationHandler) Summary(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export writes the warehouse's recommendations to CSV and reports the path.
func (h *RecommendationHandler) Export(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	path, err := h.export.ExportRecommendations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

// ListExports lists the CSV exports uploaded to object storage for the org.
func (h *RecommendationHandler) ListExports(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	objects, err := h.export.ListExports(c.Request.Context(), org)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": objects})
}

// DownloadExport streams one previously exported CSV back to the caller.
func (h *RecommendationHandler) DownloadExport(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	name := c.Param("name")
	path, err := h.export.DownloadExport(c.Request.Context(), org, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "export not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.FileAttachment(path, name)
}
