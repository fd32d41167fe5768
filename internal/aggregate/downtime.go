package aggregate

import (
	"fmt"
	"sort"

	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/internal/parse"
)

// Shift labels as recorded in the TURNOS table.
const (
	ShiftMorning   = "1.MAÑANA"
	ShiftAfternoon = "2.TARDE"
	ShiftNight     = "3.NOCHE"
	ShiftNightEnd  = "4.NOCHE FIN"
)

// VisualShift buckets an event by its start clock time, ignoring the shift
// label stored on the row. The recorded TURNO and the actual clock time
// disagree often enough that the timeline always trusts the clock:
// 06:00-13:59 morning, 14:00-21:59 afternoon, 22:00-03:59 night,
// 04:00-05:59 night end.
func VisualShift(startTime string) string {
	mins := parse.ClockMinutes(startTime)
	switch {
	case mins >= 360 && mins < 840:
		return ShiftMorning
	case mins >= 840 && mins < 1320:
		return ShiftAfternoon
	case mins >= 1320 || mins < 240:
		return ShiftNight
	case mins >= 240 && mins < 360:
		return ShiftNightEnd
	}
	return ShiftMorning
}

// BuildDowntimeReport filters the raw stoppage rows to the range and emits
// normalized events plus the equipment x reason Pareto grouping, worst
// offender first.
func BuildDowntimeReport(rows []domain.RawRow, r Range) *domain.DowntimeReport {
	dated := FilterByDate(rows, domain.ColDowntimeDate, r)

	events := make([]domain.DowntimeEvent, 0, len(dated))
	for i, dr := range dated {
		row := dr.Row

		id := row.Get(domain.ColDowntimeID)
		if id == "" {
			id = fmt.Sprintf("paro-%s-%d", dr.Date.Format("20060102"), i)
		}

		start := parse.ClockHHMM(row.Get(domain.ColDowntimeStart))
		reason := row.Get(domain.ColDowntimeReason)
		if reason == "" {
			reason = "Sin motivo"
		}
		machine := row.Get(domain.ColDowntimeMachine)
		if machine == "" {
			machine = "Desconocida"
		}

		events = append(events, domain.DowntimeEvent{
			ID:              id,
			Date:            row.Get(domain.ColDowntimeDate),
			MachineID:       machine,
			Shift:           row.Get(domain.ColDowntimeShift),
			VisualShift:     VisualShift(start),
			StartTime:       start,
			DurationMinutes: parse.DurationToMinutes(row.Get(domain.ColDowntimeDur)),
			HAC:             row.Get(domain.ColDowntimeHAC),
			HACDetail:       row.Get(domain.ColDowntimeHACDet),
			Reason:          reason,
			SAPCause:        row.Get(domain.ColDowntimeSAP),
			DowntimeType:    row.Get(domain.ColDowntimeType),
		})
	}

	total := 0
	for _, e := range events {
		total += e.DurationMinutes
	}

	return &domain.DowntimeReport{
		Events:       events,
		Pareto:       paretoByEquipment(events),
		TotalMinutes: total,
	}
}

// paretoByEquipment sums durations per (equipment, reason) and sorts
// descending by total minutes so the worst offender renders first. Ties
// break on equipment then reason so output is deterministic.
func paretoByEquipment(events []domain.DowntimeEvent) []domain.DowntimeGroup {
	type key struct{ equipment, reason string }
	sums := make(map[key]*domain.DowntimeGroup)
	for _, e := range events {
		equipment := e.HAC
		if equipment == "" {
			equipment = e.MachineID
		}
		k := key{equipment, e.Reason}
		g, ok := sums[k]
		if !ok {
			g = &domain.DowntimeGroup{Equipment: equipment, Reason: e.Reason}
			sums[k] = g
		}
		g.TotalMinutes += e.DurationMinutes
		g.Count++
	}

	groups := make([]domain.DowntimeGroup, 0, len(sums))
	for _, g := range sums {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalMinutes != groups[j].TotalMinutes {
			return groups[i].TotalMinutes > groups[j].TotalMinutes
		}
		if groups[i].Equipment != groups[j].Equipment {
			return groups[i].Equipment < groups[j].Equipment
		}
		return groups[i].Reason < groups[j].Reason
	})
	return groups
}
