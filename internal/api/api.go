package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/plantaops/planta-dashboard/internal/ai"
	"github.com/plantaops/planta-dashboard/internal/api/handlers"
	"github.com/plantaops/planta-dashboard/internal/api/middleware"
	"github.com/plantaops/planta-dashboard/internal/service"
)

type Services struct {
	Reports  *service.Reports
	Analyzer *ai.Analyzer
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", handlers.CacheHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(string) bool { return true }
		} else if len(normalized) > 0 {
			corsConfig.AllowOrigins = normalized
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Reports != nil {
			reportHandler := handlers.NewReportHandler(services.Reports)
			apiGroup.GET("/downtime", reportHandler.GetDowntime)
			apiGroup.GET("/production", reportHandler.GetProduction)
			apiGroup.GET("/breakage", reportHandler.GetBreakage)
			apiGroup.GET("/stocks", reportHandler.GetStocks)
		}

		if services.Analyzer != nil {
			analyzeHandler := handlers.NewAnalyzeHandler(services.Analyzer)
			analyzeGroup := apiGroup.Group("/analyze")
			{
				analyzeGroup.POST("/breakage", analyzeHandler.AnalyzeBreakage)
				analyzeGroup.POST("/downtime", analyzeHandler.AnalyzeDowntime)
				analyzeGroup.POST("/summary", analyzeHandler.AnalyzeSummary)
			}
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
		for _, part := range strings.Split(origin, ",") {
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
