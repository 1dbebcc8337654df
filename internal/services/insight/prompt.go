package insight

import (
	"os"
	"strings"
)

// builtinInstruction is the minimal fallback used when no external
// instruction template is configured or the configured file is empty.
const builtinInstruction = `# Role
You are an analyst who turns todo-list data into productivity insights.
Given the remaining (undone) todos and per-day done/undone statistics below,
write exactly one line per field in the form KEY: value, using these keys:
COL_SUMMARY, COL_SEMANTIC_PATTERN, COL_COGNITIVE_LOAD_TYPE,
COL_BOTTLENECK_ANALYSIS, COL_ACTION_PLAN_1, COL_ACTION_PLAN_2,
COL_MOTIVATION_QUOTE.`

// LoadInstruction reads the instruction template from path. A missing,
// unreadable or blank file falls back to the built-in instruction rather
// than failing the generation.
func LoadInstruction(path string) string {
	if path == "" {
		return builtinInstruction
	}
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return builtinInstruction
	}
	return string(data)
}

// BuildPrompt concatenates the instruction template with the serialized
// input payload into a single generation request.
func BuildPrompt(instruction, payloadJSON string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n# Input Data (JSON)\n")
	b.WriteString("The JSON below contains the remaining todos and daily done/undone statistics. ")
	b.WriteString("Generate the insight fields from this data following the instructions above.\n\n")
	b.WriteString(payloadJSON)
	b.WriteString("\n")
	return b.String()
}
