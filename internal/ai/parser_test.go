package ai

import (
	"testing"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"chatter around braces", `Sure! Here you go: {"a":1} hope it helps`, `{"a":1}`},
		{"no json", "no braces here", "no braces here"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSON(tt.in); got != tt.want {
				t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	text := "```json\n{\"insight\":\"Falla en ensacadora\",\"recommendations\":[\"a\",\"b\",\"c\",\"d\"],\"priority\":\"urgent\"}\n```"

	got, err := parseResult(text)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if got.Insight != "Falla en ensacadora" {
		t.Errorf("insight = %q", got.Insight)
	}
	if len(got.Recommendations) != 3 {
		t.Errorf("recommendations clamped to %d, want 3", len(got.Recommendations))
	}
	if got.Priority != domain.PriorityMedium {
		t.Errorf("unknown priority normalized to %q, want %q", got.Priority, domain.PriorityMedium)
	}
}

func TestParseResultRejectsIncomplete(t *testing.T) {
	for _, text := range []string{
		"not json at all",
		`{"insight":"","recommendations":["a"],"priority":"low"}`,
		`{"insight":"ok","recommendations":[],"priority":"low"}`,
	} {
		if _, err := parseResult(text); err == nil {
			t.Errorf("parseResult(%q) should fail", text)
		}
	}
}
