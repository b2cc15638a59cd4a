// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/bufferboard/internal/api/handlers"
	"github.com/andresuchdata/bufferboard/internal/api/middleware"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Sales           *service.SalesService
	Buffers         *service.BufferService
	Recommendations *service.RecommendationService
	KPI             *service.KPIService
	Explain         *service.ExplainService
	Export          *service.ExportService
	Catalog         *service.CatalogService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Org-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Sales != nil {
			salesHandler := handlers.NewSalesHandler(services.Sales)
			apiGroup.POST("/sales/rebuild", salesHandler.RebuildDailySales)
		}

		if services.Buffers != nil {
			bufferHandler := handlers.NewBufferHandler(services.Buffers)
			bufferGroup := apiGroup.Group("/buffers")
			{
				bufferGroup.POST("/recalc", bufferHandler.Recalc)
				bufferGroup.GET("/runs", bufferHandler.Runs)
			}
		}

		if services.Recommendations != nil {
			recHandler := handlers.NewRecommendationHandler(services.Recommendations, services.Export)
			recGroup := apiGroup.Group("/recommendations")
			{
				recGroup.GET("", recHandler.List)
				recGroup.GET("/summary", recHandler.Summary)
				if services.Export != nil {
					recGroup.POST("/export", recHandler.Export)
					recGroup.GET("/exports", recHandler.ListExports)
					recGroup.GET("/exports/:name", recHandler.DownloadExport)
				}
			}
		}

		if services.KPI != nil && services.Explain != nil && services.Catalog != nil {
			skuHandler := handlers.NewSkuHandler(services.KPI, services.Explain, services.Catalog)
			apiGroup.GET("/skus/:sku/kpi", skuHandler.GetKPI)
			apiGroup.GET("/skus/:sku/explain", skuHandler.Explain)
			apiGroup.GET("/skus", skuHandler.ListProducts)
			apiGroup.GET("/warehouses", skuHandler.ListWarehouses)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
