package insight

import (
	"strings"

	"github.com/hyunwkim/dailytodo/internal/models"
)

// fieldKeys maps the fixed generation output keys to insight fields, in
// match order. A line is claimed by the first key whose "KEY:" prefix it
// carries; a later line with the same key overwrites the earlier value.
var fieldKeys = []struct {
	key    string
	assign func(*models.Insight, string)
}{
	{"COL_SUMMARY", func(i *models.Insight, v string) { i.Summary = v }},
	{"COL_SEMANTIC_PATTERN", func(i *models.Insight, v string) { i.SemanticPattern = v }},
	{"COL_COGNITIVE_LOAD_TYPE", func(i *models.Insight, v string) { i.CognitiveLoadType = v }},
	{"COL_BOTTLENECK_ANALYSIS", func(i *models.Insight, v string) { i.BottleneckAnalysis = v }},
	{"COL_ACTION_PLAN_1", func(i *models.Insight, v string) { i.ActionPlan1 = v }},
	{"COL_ACTION_PLAN_2", func(i *models.Insight, v string) { i.ActionPlan2 = v }},
	{"COL_MOTIVATION_QUOTE", func(i *models.Insight, v string) { i.MotivationQuote = v }},
}

// ParseFields populates an insight from generated free text. Each line is
// stripped of list markup, then matched case-insensitively against the fixed
// "KEY:" prefixes; unmatched lines are ignored and missing keys leave their
// field empty. Parse quality is never an error: a sparse result is still a
// valid insight.
func ParseFields(text string) models.Insight {
	var insight models.Insight

	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, "-* \t\r")
		for _, field := range fieldKeys {
			prefix := field.key + ":"
			if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
				field.assign(&insight, strings.TrimSpace(line[len(prefix):]))
				break
			}
		}
	}

	return insight
}
