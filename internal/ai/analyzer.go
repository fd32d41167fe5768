package ai

import (
	"context"

	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/internal/domain"
	"github.com/plantaops/planta-dashboard/pkg/logger"
)

// SummaryInput is what the plant-wide summary analysis looks at.
type SummaryInput struct {
	Production domain.ProductionStats `json:"production"`
	Downtimes  []domain.DowntimeEvent `json:"downtimes"`
}

// Analyzer produces a diagnostic for each aggregate. Every method returns a
// usable result: external failures of any kind degrade to the rule-based
// fallback, never to an error.
type Analyzer struct {
	client *Client
	cfg    config.AIConfig
}

func NewAnalyzer(cfg config.AIConfig) *Analyzer {
	return &Analyzer{client: NewClient(cfg), cfg: cfg}
}

// AnalyzeBreakage diagnoses bag-breakage quality numbers.
func (a *Analyzer) AnalyzeBreakage(ctx context.Context, stats domain.BreakageStats) domain.AIAnalysisResult {
	if stats.TotalProduced == 0 {
		return domain.AIAnalysisResult{
			Insight:         "No hay suficientes datos de producción para realizar un análisis de calidad.",
			Recommendations: []string{"Seleccione un rango de fecha con producción."},
			Priority:        domain.PriorityLow,
		}
	}
	return a.run(ctx, "breakage", breakagePrompt(stats), func() domain.AIAnalysisResult {
		return a.fallbackBreakage(stats)
	})
}

// AnalyzeDowntime diagnoses the stoppage log.
func (a *Analyzer) AnalyzeDowntime(ctx context.Context, events []domain.DowntimeEvent) domain.AIAnalysisResult {
	if len(events) == 0 {
		return domain.AIAnalysisResult{
			Insight:         "No hay eventos de parada registrados en este rango.",
			Recommendations: []string{"Verificar carga de datos en planilla"},
			Priority:        domain.PriorityLow,
		}
	}
	return a.run(ctx, "downtime", downtimePrompt(events), func() domain.AIAnalysisResult {
		return a.fallbackDowntime(events)
	})
}

// AnalyzeSummary produces the plant-wide executive summary.
func (a *Analyzer) AnalyzeSummary(ctx context.Context, input SummaryInput) domain.AIAnalysisResult {
	if len(input.Production.Details) == 0 && len(input.Downtimes) == 0 {
		return domain.AIAnalysisResult{
			Insight:         "No hay datos de producción ni paros en este rango.",
			Recommendations: []string{"Verificar carga de datos en planilla"},
			Priority:        domain.PriorityLow,
		}
	}
	return a.run(ctx, "summary", summaryPrompt(input), func() domain.AIAnalysisResult {
		return a.fallbackSummary(input)
	})
}

func (a *Analyzer) run(ctx context.Context, kind, prompt string, fallback func() domain.AIAnalysisResult) domain.AIAnalysisResult {
	if !a.client.HasCredentials() {
		logger.Log.Debug().Str("analysis", kind).Msg("no AI credentials, using rule-based fallback")
		return fallback()
	}

	text, err := a.client.Complete(ctx, prompt)
	if err != nil {
		logger.Log.Warn().Str("analysis", kind).Err(err).Msg("completion failed, using rule-based fallback")
		return fallback()
	}

	result, err := parseResult(text)
	if err != nil {
		logger.Log.Warn().Str("analysis", kind).Err(err).Msg("unparseable completion, using rule-based fallback")
		return fallback()
	}
	return result
}
