// Package service assembles the dashboard aggregates: cache lookup, sheet
// fetch, aggregation, cache fill. Aggregation itself is pure; all I/O lives
// here.
package service

import (
	"context"
	"encoding/json"

	"github.com/plantaops/planta-dashboard/internal/aggregate"
	"github.com/plantaops/planta-dashboard/internal/cache"
	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/sheets"
	"github.com/plantaops/planta-dashboard/pkg/logger"
)

// Reports serves every dashboard aggregate for a date range. A failing or
// partially filled workbook degrades to empty aggregates, never to an error:
// the dashboard must stay usable when the source is down.
type Reports struct {
	source sheets.RowSource
	cache  cache.SnapshotCache
}

func NewReports(source sheets.RowSource, snapshots cache.SnapshotCache) *Reports {
	return &Reports{source: source, cache: snapshots}
}

// Downtime returns the stoppage report for the range. The boolean reports
// whether the snapshot came from cache.
func (s *Reports) Downtime(ctx context.Context, r aggregate.Range) (*domain.DowntimeReport, bool) {
	key := cache.Key("downtime", r.Key())
	var report domain.DowntimeReport
	if s.fromCache(ctx, key, &report) {
		return &report, true
	}

	rows := s.fetch(ctx, domain.SheetDowntime)
	result := aggregate.BuildDowntimeReport(rows, r)
	s.store(ctx, key, result)
	return result, false
}

// Production returns the OEE and volume aggregate for the range.
func (s *Reports) Production(ctx context.Context, r aggregate.Range) (*domain.ProductionStats, bool) {
	key := cache.Key("production", r.Key())
	var stats domain.ProductionStats
	if s.fromCache(ctx, key, &stats) {
		return &stats, true
	}

	tables := s.fetchMulti(ctx, domain.SheetProductionHeader, domain.SheetProductionDetail)
	result := aggregate.BuildProductionStats(tables[domain.SheetProductionHeader], tables[domain.SheetProductionDetail], r)
	s.store(ctx, key, result)
	return result, false
}

// Breakage returns the bag-breakage quality aggregate for the range.
func (s *Reports) Breakage(ctx context.Context, r aggregate.Range) (*domain.BreakageStats, bool) {
	key := cache.Key("breakage", r.Key())
	var stats domain.BreakageStats
	if s.fromCache(ctx, key, &stats) {
		return &stats, true
	}

	rows := s.fetch(ctx, domain.SheetProductionDetail)
	result := aggregate.BuildBreakageStats(rows, r)
	s.store(ctx, key, result)
	return result, false
}

// Stocks returns the counted inventory adjusted for night-shift production.
func (s *Reports) Stocks(ctx context.Context, r aggregate.Range) (*domain.StockReport, bool) {
	key := cache.Key("stocks", r.Key())
	var report domain.StockReport
	if s.fromCache(ctx, key, &report) {
		return &report, true
	}

	tables := s.fetchMulti(ctx,
		domain.SheetStockCount, domain.SheetProductionHeader, domain.SheetProductionDetail)
	result := aggregate.BuildStockReport(
		tables[domain.SheetStockCount],
		tables[domain.SheetProductionHeader],
		tables[domain.SheetProductionDetail],
		r)
	s.store(ctx, key, result)
	return result, false
}

func (s *Reports) fetch(ctx context.Context, table string) []domain.RawRow {
	rows, err := s.source.Rows(ctx, table)
	if err != nil {
		logger.Log.Warn().Str("table", table).Err(err).Msg("sheet fetch failed, serving empty aggregate")
		return nil
	}
	return rows
}

func (s *Reports) fetchMulti(ctx context.Context, tables ...string) map[string][]domain.RawRow {
	result, err := sheets.MultiRows(ctx, s.source, tables...)
	if err != nil {
		logger.Log.Warn().Strs("tables", tables).Err(err).Msg("sheet fetch failed, serving empty aggregate")
		return map[string][]domain.RawRow{}
	}
	return result
}

func (s *Reports) fromCache(ctx context.Context, key string, out interface{}) bool {
	payload, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Log.Warn().Str("key", key).Err(err).Msg("cache read failed")
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.Log.Warn().Str("key", key).Err(err).Msg("stale cache payload shape, refetching")
		return false
	}
	return true
}

func (s *Reports) store(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Log.Error().Str("key", key).Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		logger.Log.Warn().Str("key", key).Err(err).Msg("cache write failed")
	}
}
