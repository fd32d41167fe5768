package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/internal/domain"
)

func testThresholds() config.AIConfig {
	return config.AIConfig{
		BreakageHighPct: 2.0,
		OEECriticalPct:  65,
		OEETargetPct:    85,
		DowntimeHighMin: 120,
	}
}

func checkComplete(t *testing.T, result domain.AIAnalysisResult) {
	t.Helper()
	if strings.TrimSpace(result.Insight) == "" {
		t.Error("insight must not be empty")
	}
	if n := len(result.Recommendations); n < 1 || n > 3 {
		t.Errorf("recommendations = %d, want 1..3", n)
	}
	switch result.Priority {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		t.Errorf("priority = %q, not a valid level", result.Priority)
	}
}

func TestAnalyzeWithoutKeyAlwaysCompletes(t *testing.T) {
	// No credentials at all: every analysis must still return a complete,
	// fallback-tagged result without touching the network.
	analyzer := NewAnalyzer(testThresholds())
	ctx := context.Background()

	stats := domain.BreakageStats{
		TotalProduced: 10000,
		TotalBroken:   350,
		GlobalRate:    3.5,
		BySector:      []domain.SectorBreakage{{Name: "Ensacadora", Value: 350, Percentage: 100}},
		ByProvider:    []domain.ProviderBreakage{{Name: "Proveedor Sur", Rate: 3.5}},
	}
	events := []domain.DowntimeEvent{
		{Reason: "Falla sensor", HAC: "ENS-01", DurationMinutes: 90},
		{Reason: "Atasco", HAC: "PAL-02", DurationMinutes: 60},
	}

	results := map[string]domain.AIAnalysisResult{
		"breakage": analyzer.AnalyzeBreakage(ctx, stats),
		"downtime": analyzer.AnalyzeDowntime(ctx, events),
		"summary": analyzer.AnalyzeSummary(ctx, SummaryInput{
			Production: domain.ProductionStats{Details: []domain.ShiftMetric{{OEE: 0.55}}},
			Downtimes:  events,
		}),
	}

	for kind, result := range results {
		checkComplete(t, result)
		if !strings.HasPrefix(result.Insight, FallbackPrefix) {
			t.Errorf("%s insight %q lacks fallback prefix", kind, result.Insight)
		}
	}

	if results["breakage"].Priority != domain.PriorityHigh {
		t.Errorf("breakage rate 3.5%% should be high priority, got %s", results["breakage"].Priority)
	}
	if results["downtime"].Priority != domain.PriorityHigh {
		t.Errorf("150 min total downtime should be high priority, got %s", results["downtime"].Priority)
	}
	if results["summary"].Priority != domain.PriorityHigh {
		t.Errorf("55%% OEE should be high priority, got %s", results["summary"].Priority)
	}
}

func TestAnalyzeEmptyDataShortCircuits(t *testing.T) {
	// Empty aggregates answer directly without calling the AI, even when a
	// key is configured.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty-data analysis must not reach the completion API")
	}))
	defer srv.Close()

	cfg := testThresholds()
	cfg.APIKey = "key"
	cfg.Endpoint = srv.URL
	cfg.Models = []string{"model-a"}
	analyzer := NewAnalyzer(cfg)
	ctx := context.Background()

	for kind, result := range map[string]domain.AIAnalysisResult{
		"breakage": analyzer.AnalyzeBreakage(ctx, domain.BreakageStats{}),
		"downtime": analyzer.AnalyzeDowntime(ctx, nil),
		"summary":  analyzer.AnalyzeSummary(ctx, SummaryInput{}),
	} {
		checkComplete(t, result)
		if result.Priority != domain.PriorityLow {
			t.Errorf("%s empty-data priority = %s, want low", kind, result.Priority)
		}
		if strings.HasPrefix(result.Insight, FallbackPrefix) {
			t.Errorf("%s empty-data insight should not carry the fallback prefix", kind)
		}
	}
}

func TestAnalyzeUsesModelAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("```json\n{\"insight\":\"Mordazas desgastadas\",\"recommendations\":[\"Cambiar mordazas\"],\"priority\":\"high\"}\n```"))
	}))
	defer srv.Close()

	cfg := testThresholds()
	cfg.APIKey = "key"
	cfg.Endpoint = srv.URL
	cfg.Models = []string{"model-a"}
	analyzer := NewAnalyzer(cfg)

	result := analyzer.AnalyzeBreakage(context.Background(), domain.BreakageStats{TotalProduced: 100, GlobalRate: 1})
	if result.Insight != "Mordazas desgastadas" {
		t.Errorf("insight = %q, want the model's answer", result.Insight)
	}
	if strings.HasPrefix(result.Insight, FallbackPrefix) {
		t.Error("model answer must not be fallback-tagged")
	}
}

func TestAnalyzeFallsBackOnGarbageAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("I cannot analyze this data, sorry."))
	}))
	defer srv.Close()

	cfg := testThresholds()
	cfg.APIKey = "key"
	cfg.Endpoint = srv.URL
	cfg.Models = []string{"model-a"}
	analyzer := NewAnalyzer(cfg)

	result := analyzer.AnalyzeBreakage(context.Background(), domain.BreakageStats{TotalProduced: 100, GlobalRate: 1})
	checkComplete(t, result)
	if !strings.HasPrefix(result.Insight, FallbackPrefix) {
		t.Errorf("garbage answer should degrade to fallback, got %q", result.Insight)
	}
}
