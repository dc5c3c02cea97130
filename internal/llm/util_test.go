package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"fence on same line as brace", "```{\"a\": 1}```", `{"a": 1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfig_GetModel_Fallback(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierStandard: "gemini-2.5-flash"},
	}
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))

	empty := &Config{Provider: ProviderGemini}
	assert.Equal(t, "", empty.GetModel(TierLite))
}
