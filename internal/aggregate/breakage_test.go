package aggregate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

func breakageRow(date, provider, material, produced, sealer, mouth, vento, conveyor string) domain.RawRow {
	return domain.RawRow{
		"FECHA":                              date,
		"DESCRIPCION_PROVEEDOR":              provider,
		"DESCRIPCION_MATERIAL":               material,
		"BOLSAS PRODUCIDAS":                  produced,
		"BOLSAS DESCARTADAS_ENSACADORA":      sealer,
		"BOLSAS DESCARTADAS_NO_EMBOQUILLADA": mouth,
		"BOLSAS_DESCARTADAS_VENTOCHECK":      vento,
		"BOLSAS_DESCARTADAS_TRANSPORTE":      conveyor,
	}
}

func TestBreakageInvariantBrokenEqualsSectorSum(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("05/03/2024", "Proveedor A", "CPF40", "1000", "10", "5", "3", "2"),
		breakageRow("06/03/2024", "Proveedor B", "Maestro", "2000", "0", "8", "0", "4"),
	}

	stats := BuildBreakageStats(rows, r)

	var sectorSum float64
	for _, s := range stats.BySector {
		sectorSum += s.Value
	}
	if math.Abs(stats.TotalBroken-sectorSum) > epsilon {
		t.Errorf("TotalBroken=%v but sector sum=%v", stats.TotalBroken, sectorSum)
	}
	if stats.GlobalRate < 0 || stats.GlobalRate > 100 {
		t.Errorf("GlobalRate out of range: %v", stats.GlobalRate)
	}
	if want := 32.0 / 3000.0 * 100; math.Abs(stats.GlobalRate-want) > epsilon {
		t.Errorf("GlobalRate = %v, want %v", stats.GlobalRate, want)
	}
}

func TestBreakageZeroSectorDroppedFromChart(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("05/03/2024", "Proveedor A", "CPF40", "1000", "10", "0", "0", "5"),
	}

	stats := BuildBreakageStats(rows, r)
	if len(stats.BySector) != 2 {
		t.Fatalf("got %d sectors, want 2 (zero buckets dropped)", len(stats.BySector))
	}
	for _, s := range stats.BySector {
		if s.Value <= 0 {
			t.Errorf("zero-value sector %q leaked into chart output", s.Name)
		}
	}
}

func TestBreakageProviderWorstFirstAndSafeKeys(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("05/03/2024", "3M", "CPF40", "1000", "50", "0", "0", "0"),
		breakageRow("05/03/2024", "Fábrica S.A.", "CPF40", "1000", "10", "0", "0", "0"),
	}

	stats := BuildBreakageStats(rows, r)
	if len(stats.ByProvider) != 2 {
		t.Fatalf("got %d providers, want 2", len(stats.ByProvider))
	}
	if stats.ByProvider[0].Name != "3M" {
		t.Errorf("worst provider first, got %q", stats.ByProvider[0].Name)
	}
	if stats.ByProvider[0].ID != "id_3M" {
		t.Errorf("series key must not start with a digit, got %q", stats.ByProvider[0].ID)
	}
	// display name preserved alongside the sanitized id
	if stats.ByProvider[1].Name != "Fábrica S.A." || stats.ByProvider[1].ID != "id_F_brica_S_A_" {
		t.Errorf("display/id mismatch: %+v", stats.ByProvider[1])
	}
}

func TestBreakageMaterialSectorBreakdown(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("05/03/2024", "Proveedor A", "CPF40", "1000", "7", "3", "2", "1"),
		breakageRow("06/03/2024", "Proveedor A", "CPF40", "500", "1", "0", "0", "1"),
	}

	stats := BuildBreakageStats(rows, r)
	m := stats.ByMaterial[0]
	if m.SectorEnsacadora != 8 || m.SectorNoEmboquillada != 3 || m.SectorVentocheck != 2 || m.SectorTransporte != 2 {
		t.Errorf("sector split wrong: %+v", m)
	}
	if m.Broken != 15 || m.Produced != 1500 {
		t.Errorf("material totals wrong: %+v", m)
	}
}

func TestBreakageHistoryChronological(t *testing.T) {
	r := mustRange(t, "2024-02-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("10/03/2024", "Proveedor A", "CPF40", "100", "1", "0", "0", "0"),
		breakageRow("28/02/2024", "Proveedor A", "CPF40", "100", "2", "0", "0", "0"),
		breakageRow("02/03/2024", "Proveedor A", "CPF40", "100", "4", "0", "0", "0"),
	}

	stats := BuildBreakageStats(rows, r)
	got := []string{}
	for _, p := range stats.History {
		got = append(got, p.Date)
	}
	want := []string{"28/02", "02/03", "10/03"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history order = %v, want %v", got, want)
		}
	}
	if stats.History[1].Rates["id_Proveedor_A"] != 4.0 {
		t.Errorf("per-day provider rate = %v, want 4", stats.History[1].Rates["id_Proveedor_A"])
	}
}

func TestBreakageEmptyInputZeroGuard(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	stats := BuildBreakageStats(nil, r)

	if stats.TotalProduced != 0 || stats.TotalBroken != 0 || stats.GlobalRate != 0 {
		t.Errorf("empty input must yield zeros, got %+v", stats)
	}
	if len(stats.BySector) != 0 || len(stats.ByProvider) != 0 || len(stats.ByMaterial) != 0 || len(stats.History) != 0 {
		t.Error("empty input must yield empty lists")
	}
	for _, f := range []float64{stats.GlobalRate} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Error("rates must never be NaN or Inf")
		}
	}
}

func TestBreakageIdempotent(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-31")
	rows := []domain.RawRow{
		breakageRow("05/03/2024", "Proveedor B", "Maestro", "800", "3", "1", "0", "2"),
		breakageRow("05/03/2024", "Proveedor A", "CPF40", "1200", "6", "0", "4", "0"),
	}

	first, _ := json.Marshal(BuildBreakageStats(rows, r))
	second, _ := json.Marshal(BuildBreakageStats(rows, r))
	if string(first) != string(second) {
		t.Error("re-running the aggregator must produce byte-identical output")
	}
}
