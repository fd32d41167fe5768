package ai

import (
	"fmt"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

// FallbackPrefix marks rule-based output so consumers can tell provenance
// apart even though the shape is identical to a model answer.
const FallbackPrefix = "[Respaldo] "

// The fallback generators are pure functions over the aggregate plus the
// configured thresholds. They always fill all three fields and cannot fail.

func (a *Analyzer) fallbackBreakage(stats domain.BreakageStats) domain.AIAnalysisResult {
	topSector := "Ensacadora"
	if len(stats.BySector) > 0 {
		topSector = stats.BySector[0].Name
	}
	topProvider := "Sin Proveedor"
	if len(stats.ByProvider) > 0 {
		topProvider = stats.ByProvider[0].Name
	}

	priority := domain.PriorityLow
	insight := fmt.Sprintf("Tasa de rotura controlada (%.2f%%). Sector dominante: %s.", stats.GlobalRate, topSector)
	if stats.GlobalRate > a.cfg.BreakageHighPct {
		priority = domain.PriorityHigh
		insight = fmt.Sprintf("Tasa de rotura elevada (%.2f%%), concentrada en el sector %s y el proveedor %s.",
			stats.GlobalRate, topSector, topProvider)
	} else if stats.GlobalRate > a.cfg.BreakageHighPct/2 {
		priority = domain.PriorityMedium
		insight = fmt.Sprintf("Tasa de rotura moderada (%.2f%%). Vigilar sector %s.", stats.GlobalRate, topSector)
	}

	return domain.AIAnalysisResult{
		Insight: FallbackPrefix + insight,
		Recommendations: []string{
			fmt.Sprintf("Revisar calibración de mordazas en %s.", topSector),
			fmt.Sprintf("Auditar lotes recientes del proveedor %s.", topProvider),
			"Aumentar frecuencia de limpieza en sensores de transporte.",
		},
		Priority: priority,
	}
}

func (a *Analyzer) fallbackDowntime(events []domain.DowntimeEvent) domain.AIAnalysisResult {
	totalMinutes := 0
	for _, d := range events {
		totalMinutes += d.DurationMinutes
	}

	var top *domain.DowntimeEvent
	if len(events) > 0 {
		top = &events[0]
	}

	var insight string
	priority := domain.PriorityMedium
	if totalMinutes > a.cfg.DowntimeHighMin {
		priority = domain.PriorityHigh
		insight = fmt.Sprintf("CRÍTICO: Elevada acumulación de tiempo de parada (%d min). ", totalMinutes)
		if top != nil {
			insight += fmt.Sprintf("Falla principal: '%s' en %s.", top.Reason, top.HAC)
		}
	} else {
		insight = "OPERATIVO: Se registran paros menores en el periodo. "
		if top != nil {
			insight += fmt.Sprintf("Motivo recurrente: '%s'.", top.Reason)
		}
	}

	recommendations := make([]string, 0, 3)
	if top != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Inspeccionar sensor/mecanismo asociado a: %s.", top.Reason),
			fmt.Sprintf("Revisar historial de mantenimiento de equipo: %s.", top.HAC))
	}
	recommendations = append(recommendations, "Validar correcta carga de motivos en SAP/Hoja de Campo.")

	return domain.AIAnalysisResult{
		Insight:         FallbackPrefix + insight,
		Recommendations: recommendations[:min(len(recommendations), 3)],
		Priority:        priority,
	}
}

func (a *Analyzer) fallbackSummary(input SummaryInput) domain.AIAnalysisResult {
	oeeVal := overallOEE(input.Production).OEE * 100

	topReason := "Falla Técnica"
	if len(input.Downtimes) > 0 {
		topReason = input.Downtimes[0].Reason
	}

	insight := "La planta opera de manera estable."
	priority := domain.PriorityLow
	if oeeVal < a.cfg.OEECriticalPct {
		priority = domain.PriorityHigh
		insight = fmt.Sprintf("Crítico bajo OEE (%.1f%%) impulsado principalmente por '%s'.", oeeVal, topReason)
	} else if oeeVal < a.cfg.OEETargetPct {
		priority = domain.PriorityMedium
		insight = fmt.Sprintf("OEE aceptable (%.1f%%), pero se observan pérdidas recurrentes por '%s'.", oeeVal, topReason)
	}

	return domain.AIAnalysisResult{
		Insight: FallbackPrefix + insight,
		Recommendations: []string{
			fmt.Sprintf("Investigar causa raíz de: %s", topReason),
			"Optimizar cambios de turno para recuperar disponibilidad",
			"Revisar velocidad de línea en paletizado",
		},
		Priority: priority,
	}
}
