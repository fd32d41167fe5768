package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantaops/planta-dashboard/internal/aggregate"
	"github.com/plantaops/planta-dashboard/internal/service"
)

// CacheHeader tells the frontend whether the aggregate was recomputed.
const (
	CacheHeader = "X-Cache"
	CacheHit    = "HIT-MEMORY"
	CacheMiss   = "MISS"
)

type ReportHandler struct {
	reports *service.Reports
}

func NewReportHandler(reports *service.Reports) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// parseRange reads the mandatory start/end query params (YYYY-MM-DD). On
// failure it answers 400 and returns ok=false.
func parseRange(c *gin.Context) (aggregate.Range, bool) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required (YYYY-MM-DD)"})
		return aggregate.Range{}, false
	}
	r, err := aggregate.NewRange(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return aggregate.Range{}, false
	}
	return r, true
}

func cacheStatus(c *gin.Context, hit bool) {
	if hit {
		c.Header(CacheHeader, CacheHit)
	} else {
		c.Header(CacheHeader, CacheMiss)
	}
}

func (h *ReportHandler) GetDowntime(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	report, hit := h.reports.Downtime(c.Request.Context(), r)
	cacheStatus(c, hit)
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetProduction(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	stats, hit := h.reports.Production(c.Request.Context(), r)
	cacheStatus(c, hit)
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) GetBreakage(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	stats, hit := h.reports.Breakage(c.Request.Context(), r)
	cacheStatus(c, hit)
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) GetStocks(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	report, hit := h.reports.Stocks(c.Request.Context(), r)
	cacheStatus(c, hit)
	c.JSON(http.StatusOK, report)
}
