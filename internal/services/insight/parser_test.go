package insight

import (
	"testing"

	"github.com/hyunwkim/dailytodo/internal/models"
)

func TestParseFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected models.Insight
	}{
		{
			name: "all fields populated",
			text: `COL_SUMMARY: busy week
COL_SEMANTIC_PATTERN: chores cluster on weekends
COL_COGNITIVE_LOAD_TYPE: administrative
COL_BOTTLENECK_ANALYSIS: evening tasks slip
COL_ACTION_PLAN_1: batch errands
COL_ACTION_PLAN_2: move calls to mornings
COL_MOTIVATION_QUOTE: keep going`,
			expected: models.Insight{
				Summary:            "busy week",
				SemanticPattern:    "chores cluster on weekends",
				CognitiveLoadType:  "administrative",
				BottleneckAnalysis: "evening tasks slip",
				ActionPlan1:        "batch errands",
				ActionPlan2:        "move calls to mornings",
				MotivationQuote:    "keep going",
			},
		},
		{
			name: "list markup stripped",
			text: "- COL_SUMMARY: dashed\n* COL_ACTION_PLAN_1: starred\n  \t- COL_MOTIVATION_QUOTE: indented",
			expected: models.Insight{
				Summary:         "dashed",
				ActionPlan1:     "starred",
				MotivationQuote: "indented",
			},
		},
		{
			name: "case-insensitive keys",
			text: "col_summary: lower\nCol_Action_Plan_1: mixed",
			expected: models.Insight{
				Summary:     "lower",
				ActionPlan1: "mixed",
			},
		},
		{
			name: "later duplicate key overwrites",
			text: "COL_SUMMARY: first\nCOL_SUMMARY: second",
			expected: models.Insight{
				Summary: "second",
			},
		},
		{
			name: "unmatched lines ignored",
			text: "Here is your analysis:\nCOL_SUMMARY: kept\nHope this helps!",
			expected: models.Insight{
				Summary: "kept",
			},
		},
		{
			name:     "missing keys stay empty",
			text:     "COL_ACTION_PLAN_2: only this",
			expected: models.Insight{ActionPlan2: "only this"},
		},
		{
			name:     "empty text yields empty insight",
			text:     "",
			expected: models.Insight{},
		},
		{
			name: "value containing a colon",
			text: "COL_MOTIVATION_QUOTE: focus: one thing at a time",
			expected: models.Insight{
				MotivationQuote: "focus: one thing at a time",
			},
		},
		{
			name: "crlf line endings",
			text: "COL_SUMMARY: windows\r\nCOL_ACTION_PLAN_1: client\r\n",
			expected: models.Insight{
				Summary:     "windows",
				ActionPlan1: "client",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseFields(tt.text)
			if got != tt.expected {
				t.Errorf("ParseFields() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}
