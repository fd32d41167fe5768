package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/parse"
)

// producedInHouse is the fixed set of products the plant itself produces,
// keyed by normalized name. Only these receive the night-shift add-back.
var producedInHouse = map[string]bool{
	"CEMENTO MAESTRO": true,
	"CEMENTO CPF 40":  true,
	"CEMENTO RAPIDO":  true,
	"CEMENTO CPF 30":  true,
}

// IsProducedInHouse reports whether a raw product name belongs to the fixed
// produced-in-house set (exact match after normalization).
func IsProducedInHouse(product string) bool {
	return producedInHouse[parse.CleanName(product)]
}

// isNightShift matches the third shift strictly: "3.NOCHE" or any "3."
// prefix. "4.NOCHE FIN" shares the word but is a different shift and is
// deliberately excluded.
func isNightShift(shift string) bool {
	s := strings.ToUpper(strings.TrimSpace(shift))
	return s == ShiftNight || strings.HasPrefix(s, "3.")
}

// NightProductionByMaterial sums the tonnage produced during the night shift
// within the range, keyed by normalized material name. The physical count
// happens before the night shift finishes, so this output is added back to
// counted stock of in-house products.
func NightProductionByMaterial(headers, details []domain.RawRow, r Range) map[string]float64 {
	nightIDs := make(map[string]bool)
	for _, dh := range FilterByDate(headers, domain.ColHeaderDate, r) {
		if !isNightShift(dh.Row.Get(domain.ColHeaderShift)) {
			continue
		}
		if id := dh.Row.Get(domain.ColHeaderID); id != "" {
			nightIDs[id] = true
		}
	}

	out := make(map[string]float64)
	for _, row := range details {
		if !nightIDs[row.Get(domain.ColDetailHeaderID)] {
			continue
		}
		material := parse.CleanName(row.Get(domain.ColDetailMaterial))
		tnRaw := row.Get(domain.ColDetailTnProduced)
		if tnRaw == "" {
			tnRaw = row.Get(domain.ColDetailTnPerBagAlt)
		}
		out[material] += parse.Number(tnRaw)
	}
	return out
}

// BuildStockReport aggregates the counted-inventory rows within the range
// and corrects in-house products for night-shift production. Category
// bucketing is presentation only and preserves per-product totals.
func BuildStockReport(counts, headers, details []domain.RawRow, r Range) *domain.StockReport {
	nightProduction := NightProductionByMaterial(headers, details, r)
	classifier := StockClassifier()

	type stockSums struct {
		qty, tn  float64
		produced bool
		date     string
	}
	stockMap := make(map[string]*stockSums)

	for _, dr := range FilterByDate(counts, domain.ColCountDate, r) {
		row := dr.Row
		product := strings.TrimSpace(row.Get(domain.ColCountProduct))
		if product == "" {
			continue
		}

		s, ok := stockMap[product]
		if !ok {
			s = &stockSums{
				produced: IsProducedInHouse(product),
				date:     row.Get(domain.ColCountDate),
			}
			stockMap[product] = s
		}
		s.qty += parse.Number(row.Get(domain.ColCountQuantity))
		s.tn += parse.Number(row.Get(domain.ColCountTonnage))
	}

	items := make([]domain.StockItem, 0, len(stockMap))
	for product, s := range stockMap {
		tn := s.tn
		category := CategoryProduced
		if s.produced {
			// Add back the night output once per product; the count
			// snapshot predates the end of the night shift.
			tn += nightProduction[parse.CleanName(product)]
		} else {
			category = classifier.Classify(product)
		}
		items = append(items, domain.StockItem{
			Product:     product,
			Quantity:    s.qty,
			Tonnage:     tn,
			IsProduced:  s.produced,
			Category:    category,
			LastUpdated: s.date,
		})
	}

	sortStockItems(items)
	for i := range items {
		items[i].ID = fmt.Sprintf("stk-%d", i)
	}

	report := &domain.StockReport{Items: items}
	if len(items) > 0 {
		report.Date = items[0].LastUpdated
	} else {
		report.Date = r.Start.Format("2006-01-02")
	}
	return report
}

// sortStockItems orders produced items first (alphabetical), then pallets
// and packaging by quantity and supplies by tonnage, descending.
func sortStockItems(items []domain.StockItem) {
	categoryOrder := map[string]int{
		CategoryProduced:  0,
		CategoryPallets:   1,
		CategoryPackaging: 2,
		CategorySupplies:  3,
	}
	sort.Slice(items, func(i, j int) bool {
		oi, oj := categoryOrder[items[i].Category], categoryOrder[items[j].Category]
		if oi != oj {
			return oi < oj
		}
		switch items[i].Category {
		case CategoryProduced:
			return items[i].Product < items[j].Product
		case CategorySupplies:
			if items[i].Tonnage != items[j].Tonnage {
				return items[i].Tonnage > items[j].Tonnage
			}
		default:
			if items[i].Quantity != items[j].Quantity {
				return items[i].Quantity > items[j].Quantity
			}
		}
		return items[i].Product < items[j].Product
	})
}
