package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantaops/planta-dashboard/internal/ai"
	"github.com/plantaops/planta-dashboard/internal/domain"
)

// AnalyzeHandler exposes the diagnostic layer. The frontend posts the same
// aggregate it already rendered, so a degraded AI never costs a re-fetch.
type AnalyzeHandler struct {
	analyzer *ai.Analyzer
}

func NewAnalyzeHandler(analyzer *ai.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

func (h *AnalyzeHandler) AnalyzeBreakage(c *gin.Context) {
	var body struct {
		Stats domain.BreakageStats `json:"stats"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain a stats object"})
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeBreakage(c.Request.Context(), body.Stats))
}

func (h *AnalyzeHandler) AnalyzeDowntime(c *gin.Context) {
	var body struct {
		Downtimes []domain.DowntimeEvent `json:"downtimes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain a downtimes array"})
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeDowntime(c.Request.Context(), body.Downtimes))
}

func (h *AnalyzeHandler) AnalyzeSummary(c *gin.Context) {
	var body ai.SummaryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain production and downtimes"})
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeSummary(c.Request.Context(), body))
}
