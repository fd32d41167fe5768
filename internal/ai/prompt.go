package ai

import (
	"fmt"
	"strings"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

// Prompts are in Spanish because the plant crews read the dashboard in
// Spanish; the model is instructed to answer with bare JSON matching
// AIAnalysisResult.

const jsonShapeInstruction = `IMPORTANTE: Responde SOLO con un objeto JSON válido. NO uses markdown. NO agregues texto antes ni después.
Estructura:
{
  "insight": "Diagnóstico breve (máx 150 caracteres).",
  "recommendations": ["Acción 1", "Acción 2", "Acción 3"],
  "priority": "high" | "medium" | "low"
}`

func breakagePrompt(stats domain.BreakageStats) string {
	var b strings.Builder
	b.WriteString("Actúa como un Ingeniero de Calidad experto. Analiza estos datos de merma de sacos:\n\n")
	fmt.Fprintf(&b, "DATOS:\n- Producción: %.0f\n- Roturas: %.0f\n- Tasa Falla: %.2f%%\n\n",
		stats.TotalProduced, stats.TotalBroken, stats.GlobalRate)

	b.WriteString("SECTORES (Fallas):\n")
	if len(stats.BySector) == 0 {
		b.WriteString("N/A\n")
	}
	for _, s := range stats.BySector {
		fmt.Fprintf(&b, "- %s: %.0f\n", s.Name, s.Value)
	}

	b.WriteString("\nPROVEEDORES (Peores):\n")
	if len(stats.ByProvider) == 0 {
		b.WriteString("N/A\n")
	}
	for _, p := range topN(stats.ByProvider, 3) {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", p.Name, p.Rate)
	}

	b.WriteString("\nMATERIALES (Peores):\n")
	if len(stats.ByMaterial) == 0 {
		b.WriteString("N/A\n")
	}
	for _, m := range topN(stats.ByMaterial, 3) {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", m.Name, m.Rate)
	}

	b.WriteString("\n")
	b.WriteString(jsonShapeInstruction)
	return b.String()
}

func downtimePrompt(events []domain.DowntimeEvent) string {
	var b strings.Builder
	b.WriteString("Actúa como Especialista en Mantenimiento Industrial. Analiza estos paros de planta:\nEventos:\n")
	for _, d := range topN(events, 8) {
		fmt.Fprintf(&b, "- %s en %s (%dm, Tipo: %s)\n", d.Reason, d.HAC, d.DurationMinutes, d.DowntimeType)
	}
	b.WriteString("\n")
	b.WriteString(jsonShapeInstruction)
	return b.String()
}

func summaryPrompt(input SummaryInput) string {
	oee := overallOEE(input.Production)

	var b strings.Builder
	b.WriteString("Actúa como Ingeniero de Planta. Analiza estos datos del periodo:\n\n")
	fmt.Fprintf(&b, "OEE Global: %.1f%% (Disp: %.1f%%, Rend: %.1f%%)\n",
		oee.OEE*100, oee.Availability*100, oee.Performance*100)

	b.WriteString("Top Paros: ")
	if len(input.Downtimes) == 0 {
		b.WriteString("Ninguno")
	}
	tops := make([]string, 0, 3)
	for _, d := range topN(input.Downtimes, 3) {
		tops = append(tops, fmt.Sprintf("%s (%dm)", d.Reason, d.DurationMinutes))
	}
	b.WriteString(strings.Join(tops, ", "))

	b.WriteString("\n\n")
	b.WriteString(jsonShapeInstruction)
	return b.String()
}

func topN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

type oeeSummary struct {
	Availability float64
	Performance  float64
	OEE          float64
}

// overallOEE averages the per-group metrics into one plant-level figure.
func overallOEE(stats domain.ProductionStats) oeeSummary {
	if len(stats.Details) == 0 {
		return oeeSummary{}
	}
	var sum oeeSummary
	for _, d := range stats.Details {
		sum.Availability += d.Availability
		sum.Performance += d.Performance
		sum.OEE += d.OEE
	}
	n := float64(len(stats.Details))
	return oeeSummary{
		Availability: sum.Availability / n,
		Performance:  sum.Performance / n,
		OEE:          sum.OEE / n,
	}
}
