package aggregate

import (
	"sort"

	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/parse"
)

// oeeAccum collects per (machine, shift) sums used by the OEE formulas.
type oeeAccum struct {
	machineName string
	shift       string

	hsRunningSum float64
	hsExtStopSum float64
	durationSum  float64

	// Tonnage-weighted reference rate: sum(rate_i * tn_i) / sum(tn_i).
	weightedRateNum float64
	weightedRateDen float64
}

// BuildProductionStats joins the header sheet (one row per machine+shift+day)
// against the detail sheet (one row per material per header) and derives the
// production KPIs.
//
// Availability counts external stops as available time: upstream starvation
// is not the machine's fault, only internal downtime reduces availability.
// Quality is not tracked by the plant and is fixed at 1, so OEE is
// availability x performance.
func BuildProductionStats(headers, details []domain.RawRow, r Range) *domain.ProductionStats {
	datedHeaders := FilterByDate(headers, domain.ColHeaderDate, r)

	// Details are joined through the header id set, never trusted to be
	// date-filtered on their own. Orphans are dropped.
	headerByID := make(map[string]domain.RawRow, len(datedHeaders))
	for _, dh := range datedHeaders {
		if id := dh.Row.Get(domain.ColHeaderID); id != "" {
			headerByID[id] = dh.Row
		}
	}

	stats := &domain.ProductionStats{
		ByShift:          []domain.ShiftTotal{},
		ByMachine:        []domain.MachineTotal{},
		ByMachineProduct: []domain.MachineProductRow{},
		Details:          []domain.ShiftMetric{},
	}

	shiftTotals := make(map[string]float64)
	type machineSums struct{ bags, tn float64 }
	machineStats := make(map[string]*machineSums)
	machineProduct := make(map[string]map[string]float64)
	oee := make(map[string]*oeeAccum)

	for _, dh := range datedHeaders {
		row := dh.Row
		machine := machineName(row)
		shift := row.Get(domain.ColHeaderShift)
		key := machine + "-" + shift

		tn := parse.Number(row.Get(domain.ColHeaderTn))
		stats.TotalTn += tn

		ms, ok := machineStats[machine]
		if !ok {
			ms = &machineSums{}
			machineStats[machine] = ms
		}
		ms.tn += tn

		acc, ok := oee[key]
		if !ok {
			acc = &oeeAccum{machineName: machine, shift: shift}
			oee[key] = acc
		}
		acc.hsRunningSum += parse.Number(row.Get(domain.ColHeaderHsRunning))
		acc.hsExtStopSum += parse.Number(row.Get(domain.ColHeaderHsExtStop))
		acc.durationSum += parse.Number(row.Get(domain.ColHeaderDuration))

		// Zero-tonnage headers contribute nothing to either side of the
		// weighted rate, so an idle shift cannot skew performance.
		if tn > 0 {
			rate := parse.Number(row.Get(domain.ColHeaderRefRate))
			acc.weightedRateNum += rate * tn
			acc.weightedRateDen += tn
		}
	}

	for _, row := range details {
		header, ok := headerByID[row.Get(domain.ColDetailHeaderID)]
		if !ok {
			continue
		}

		bags := parse.Number(row.Get(domain.ColDetailBags))
		material := row.Get(domain.ColDetailMaterial)
		if material == "" {
			material = "Otros"
		}
		machine := machineName(header)
		shift := header.Get(domain.ColHeaderShift)
		if shift == "" {
			shift = "Sin Turno"
		}

		stats.TotalBags += bags
		shiftTotals[shift] += bags

		ms, ok := machineStats[machine]
		if !ok {
			ms = &machineSums{}
			machineStats[machine] = ms
		}
		ms.bags += bags

		mp, ok := machineProduct[machine]
		if !ok {
			mp = make(map[string]float64)
			machineProduct[machine] = mp
		}
		mp[material] += bags
	}

	for name, value := range shiftTotals {
		stats.ByShift = append(stats.ByShift, domain.ShiftTotal{Name: name, Value: value})
	}
	sort.Slice(stats.ByShift, func(i, j int) bool { return stats.ByShift[i].Name < stats.ByShift[j].Name })

	for name, sums := range machineStats {
		stats.ByMachine = append(stats.ByMachine, domain.MachineTotal{Name: name, Value: sums.bags, ValueTn: sums.tn})
	}
	sort.Slice(stats.ByMachine, func(i, j int) bool { return stats.ByMachine[i].Name < stats.ByMachine[j].Name })

	for name, products := range machineProduct {
		stats.ByMachineProduct = append(stats.ByMachineProduct, domain.MachineProductRow{Name: name, Products: products})
	}
	sort.Slice(stats.ByMachineProduct, func(i, j int) bool {
		return stats.ByMachineProduct[i].Name < stats.ByMachineProduct[j].Name
	})

	for _, acc := range oee {
		stats.Details = append(stats.Details, acc.metric())
	}
	sort.Slice(stats.Details, func(i, j int) bool {
		if stats.Details[i].MachineName != stats.Details[j].MachineName {
			return stats.Details[i].MachineName < stats.Details[j].MachineName
		}
		return stats.Details[i].Shift < stats.Details[j].Shift
	})

	return stats
}

func (a *oeeAccum) metric() domain.ShiftMetric {
	availability := 0.0
	if a.durationSum > 0 {
		availability = (a.hsExtStopSum + a.hsRunningSum) / a.durationSum
	}

	performance := 0.0
	if a.weightedRateDen > 0 {
		performance = a.weightedRateNum / a.weightedRateDen
	}

	return domain.ShiftMetric{
		MachineID:    a.machineName,
		MachineName:  a.machineName,
		Shift:        a.shift,
		Availability: availability,
		Performance:  performance,
		Quality:      1,
		OEE:          availability * performance,
	}
}

func machineName(header domain.RawRow) string {
	if desc := header.Get(domain.ColHeaderMachineDesc); desc != "" {
		return desc
	}
	if name := header.Get(domain.ColHeaderMachine); name != "" {
		return name
	}
	return "Desconocida"
}
