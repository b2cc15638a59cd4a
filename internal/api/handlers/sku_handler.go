package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/bufferboard/internal/domain"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/gin-gonic/gin"
)

type SkuHandler struct {
	kpi     *service.KPIService
	explain *service.ExplainService
	catalog *service.CatalogService
}

func NewSkuHandler(kpi *service.KPIService, explain *service.ExplainService, catalog *service.CatalogService) *SkuHandler {
	return &SkuHandler{kpi: kpi, explain: explain, catalog: catalog}
}

// GetKPI returns the derived metrics for one SKU.
func (h *SkuHandler) GetKPI(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var warehouseID *string
	if w := strings.TrimSpace(c.Query("warehouse_id")); w != "" {
		warehouseID = &w
	}

	rng, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	kpi, err := h.kpi.GetSkuKPI(c.Request.Context(), org, c.Param("sku"), warehouseID, rng)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, kpi)
}

// Explain returns the structured explanation payload for one SKU at a
// warehouse, or null when the SKU is unknown there.
func (h *SkuHandler) Explain(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	payload, err := h.explain.BuildPayload(c.Request.Context(), org, c.Query("warehouse_id"), c.Param("sku"), date)
	if errors.Is(err, domain.ErrNotFound) {
		// Absence is a normal state, not a failure.
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// ListWarehouses returns the org's warehouses.
func (h *SkuHandler) ListWarehouses(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	warehouses, err := h.catalog.ListWarehouses(c.Request.Context(), org)
	if err != nil {
		respondError(c, err)
		return
	}
	if warehouses == nil {
		warehouses = []domain.Warehouse{}
	}

	c.JSON(http.StatusOK, gin.H{"data": warehouses})
}

// ListProducts returns the org's SKU catalog with optional search.
func (h *SkuHandler) ListProducts(c *gin.Context) {
	org, err := orgID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.catalog.ListProducts(c.Request.Context(), org, c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}
