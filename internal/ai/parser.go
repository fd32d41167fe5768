package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/plantaops/planta-dashboard/internal/domain"
)

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// cleanJSON strips the decoration models like to wrap around JSON output.
// First a markdown code fence, then the substring between the first '{' and
// the last '}'. Anything left is returned trimmed and may still fail to
// parse downstream.
func cleanJSON(s string) string {
	if s == "" {
		return ""
	}
	if m := fenceRe.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last > first {
		return s[first : last+1]
	}
	return strings.TrimSpace(s)
}

// parseResult decodes a generated text into an AIAnalysisResult and applies
// shape guarantees: non-empty insight, 1-3 recommendations, valid priority.
func parseResult(text string) (domain.AIAnalysisResult, error) {
	var result domain.AIAnalysisResult
	if err := json.Unmarshal([]byte(cleanJSON(text)), &result); err != nil {
		return domain.AIAnalysisResult{}, fmt.Errorf("parse analysis response: %w (text: %.200s)", err, text)
	}

	if strings.TrimSpace(result.Insight) == "" {
		return domain.AIAnalysisResult{}, fmt.Errorf("analysis response missing insight")
	}
	if len(result.Recommendations) == 0 {
		return domain.AIAnalysisResult{}, fmt.Errorf("analysis response missing recommendations")
	}
	if len(result.Recommendations) > 3 {
		result.Recommendations = result.Recommendations[:3]
	}

	switch result.Priority {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		result.Priority = domain.PriorityMedium
	}
	return result, nil
}
