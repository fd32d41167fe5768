package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plantaops/planta-dashboard/internal/aggregate"
	"github.com/plantaops/planta-dashboard/internal/cache"
	"github.com/plantaops/planta-dashboard/internal/domain"
)

type fakeSource struct {
	tables map[string][]domain.RawRow
	calls  int
	err    error
}

func (f *fakeSource) Rows(_ context.Context, table string) ([]domain.RawRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tables[table], nil
}

func testRange(t *testing.T) aggregate.Range {
	t.Helper()
	r, err := aggregate.NewRange("2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newTestReports(source *fakeSource) *Reports {
	return NewReports(source, cache.NewMemoryCache(time.Minute, time.Now))
}

func TestDowntimeCachesSecondCall(t *testing.T) {
	source := &fakeSource{tables: map[string][]domain.RawRow{
		domain.SheetDowntime: {{
			"FECHA": "05/03/2025", "MÁQUINA AFECTADA": "ENS-01", "TURNO": "1.MAÑANA",
			"INICIO": "08:30", "DURACIÓN": "0:45:00", "TEXTO DE CAUSA": "Atasco",
		}},
	}}
	svc := newTestReports(source)
	ctx := context.Background()
	r := testRange(t)

	first, cached := svc.Downtime(ctx, r)
	if cached {
		t.Error("first call must miss the cache")
	}
	if len(first.Events) != 1 || first.TotalMinutes != 45 {
		t.Fatalf("unexpected report: %+v", first)
	}

	second, cached := svc.Downtime(ctx, r)
	if !cached {
		t.Error("second call must hit the cache")
	}
	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
	if len(second.Events) != 1 || second.TotalMinutes != 45 {
		t.Fatalf("cached report differs: %+v", second)
	}
}

func TestSourceFailureServesEmptyAggregate(t *testing.T) {
	svc := newTestReports(&fakeSource{err: errors.New("quota exceeded")})
	ctx := context.Background()
	r := testRange(t)

	report, cached := svc.Downtime(ctx, r)
	if cached {
		t.Error("failure path must not be cached as a hit")
	}
	if report == nil || report.Events == nil || len(report.Events) != 0 {
		t.Fatalf("want empty non-nil report, got %+v", report)
	}

	stats, _ := svc.Production(ctx, r)
	if stats == nil || stats.ByShift == nil {
		t.Fatalf("want empty non-nil stats, got %+v", stats)
	}
}

func TestDifferentRangesUseDifferentSnapshots(t *testing.T) {
	source := &fakeSource{tables: map[string][]domain.RawRow{}}
	svc := newTestReports(source)
	ctx := context.Background()

	r1 := testRange(t)
	r2, err := aggregate.NewRange("2025-04-01", "2025-04-30")
	if err != nil {
		t.Fatal(err)
	}

	svc.Downtime(ctx, r1)
	_, cached := svc.Downtime(ctx, r2)
	if cached {
		t.Error("a different range must not reuse the snapshot")
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2", source.calls)
	}
}

func TestStocksJoinsThreeTables(t *testing.T) {
	source := &fakeSource{tables: map[string][]domain.RawRow{
		domain.SheetStockCount: {{
			"FECHA": "10/03/2025", "PRODUCTO": "CEMENTO MAESTRO", "CANTIDAD": "500", "TN": "25",
		}},
		domain.SheetProductionHeader: {{
			"id_produccion": "H1", "fecha": "10/03/2025", "turno": "3.NOCHE",
		}},
		domain.SheetProductionDetail: {{
			"ID_CABECERA": "H1", "FECHA": "10/03/2025",
			"DESCRIPCION_MATERIAL": "CEMENTO MAESTRO", "TN_PRODUCIDA": "10",
		}},
	}}
	svc := newTestReports(source)

	report, _ := svc.Stocks(context.Background(), testRange(t))
	if len(report.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(report.Items))
	}
	if got := report.Items[0].Tonnage; got != 35 {
		t.Errorf("tonnage = %v, want counted 25 + night 10 = 35", got)
	}
}
