package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/parse"
)

// The four physical sectors where bags break, as named on the charts.
const (
	SectorSealer   = "Ensacadora"
	SectorMouth    = "No Emboquillada"
	SectorVento    = "Ventocheck"
	SectorConveyor = "Transporte"
)

type breakageSums struct {
	produced float64
	broken   float64

	sealer   float64
	mouth    float64
	vento    float64
	conveyor float64
}

// BuildBreakageStats aggregates broken-bag counts from the production detail
// sheet across the four sectors, then by provider, material and day x
// provider for the trend chart.
func BuildBreakageStats(rows []domain.RawRow, r Range) *domain.BreakageStats {
	dated := FilterByDate(rows, domain.ColDetailDate, r)

	var global breakageSums
	providerStats := make(map[string]*breakageSums)
	materialStats := make(map[string]*breakageSums)
	// day key -> safe provider key -> sums
	historyMap := make(map[string]map[string]*breakageSums)

	for _, dr := range dated {
		row := dr.Row

		produced := parse.Number(row.Get(domain.ColDetailBags))
		provider := strings.TrimSpace(row.Get(domain.ColDetailProvider))
		if provider == "" {
			provider = "Sin Proveedor"
		}
		material := strings.TrimSpace(row.Get(domain.ColDetailMaterial))
		if material == "" {
			material = "Desconocido"
		}

		row4 := breakageSums{
			produced: produced,
			sealer:   parse.Number(row.Get(domain.ColDetailBrkSealer)),
			mouth:    parse.Number(row.Get(domain.ColDetailBrkMouth)),
			vento:    parse.Number(row.Get(domain.ColDetailBrkVento)),
			conveyor: parse.Number(row.Get(domain.ColDetailBrkConvey)),
		}
		row4.broken = row4.sealer + row4.mouth + row4.vento + row4.conveyor

		global.add(row4)
		upsert(providerStats, provider).add(row4)
		upsert(materialStats, material).add(row4)

		dayKey := parse.DayKey(dr.Date)
		day, ok := historyMap[dayKey]
		if !ok {
			day = make(map[string]*breakageSums)
			historyMap[dayKey] = day
		}
		upsert(day, parse.SafeSeriesKey(provider)).add(row4)
	}

	stats := &domain.BreakageStats{
		TotalProduced: global.produced,
		TotalBroken:   global.broken,
		GlobalRate:    rate(global.broken, global.produced),
		BySector:      []domain.SectorBreakage{},
		ByProvider:    []domain.ProviderBreakage{},
		ByMaterial:    []domain.MaterialBreakage{},
		History:       []domain.BreakageHistoryPoint{},
	}

	// Zero-value sectors are dropped so the donut chart never renders
	// empty slices.
	for _, s := range []domain.SectorBreakage{
		{Name: SectorSealer, Value: global.sealer},
		{Name: SectorMouth, Value: global.mouth},
		{Name: SectorVento, Value: global.vento},
		{Name: SectorConveyor, Value: global.conveyor},
	} {
		if s.Value <= 0 {
			continue
		}
		s.Percentage = rate(s.Value, global.broken)
		stats.BySector = append(stats.BySector, s)
	}

	for name, sums := range providerStats {
		stats.ByProvider = append(stats.ByProvider, domain.ProviderBreakage{
			ID:       parse.SafeSeriesKey(name),
			Name:     name,
			Produced: sums.produced,
			Broken:   sums.broken,
			Rate:     rate(sums.broken, sums.produced),
		})
	}
	sortWorstFirst(stats.ByProvider, func(p domain.ProviderBreakage) (float64, string) { return p.Rate, p.Name })

	for name, sums := range materialStats {
		stats.ByMaterial = append(stats.ByMaterial, domain.MaterialBreakage{
			ID:                   parse.SafeSeriesKey(name),
			Name:                 name,
			Produced:             sums.produced,
			Broken:               sums.broken,
			Rate:                 rate(sums.broken, sums.produced),
			SectorEnsacadora:     sums.sealer,
			SectorNoEmboquillada: sums.mouth,
			SectorVentocheck:     sums.vento,
			SectorTransporte:     sums.conveyor,
		})
	}
	sortWorstFirst(stats.ByMaterial, func(m domain.MaterialBreakage) (float64, string) { return m.Rate, m.Name })

	for dayKey, providers := range historyMap {
		point := domain.BreakageHistoryPoint{Date: dayKey, Rates: make(map[string]float64, len(providers))}
		for safeKey, sums := range providers {
			point.Rates[safeKey] = round2(rate(sums.broken, sums.produced))
		}
		stats.History = append(stats.History, point)
	}
	sort.Slice(stats.History, func(i, j int) bool {
		di, mi := splitDayKey(stats.History[i].Date)
		dj, mj := splitDayKey(stats.History[j].Date)
		if mi != mj {
			return mi < mj
		}
		return di < dj
	})

	return stats
}

func (s *breakageSums) add(other breakageSums) {
	s.produced += other.produced
	s.broken += other.broken
	s.sealer += other.sealer
	s.mouth += other.mouth
	s.vento += other.vento
	s.conveyor += other.conveyor
}

func upsert(m map[string]*breakageSums, key string) *breakageSums {
	if s, ok := m[key]; ok {
		return s
	}
	s := &breakageSums{}
	m[key] = s
	return s
}

func rate(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func splitDayKey(key string) (day, month int) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	day, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	return day, month
}

func sortWorstFirst[T any](items []T, keyFn func(T) (float64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ri, ni := keyFn(items[i])
		rj, nj := keyFn(items[j])
		if ri != rj {
			return ri > rj
		}
		return ni < nj
	})
}
