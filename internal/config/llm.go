package config

import (
	"github.com/abhisek/pathwise/internal/llm"
)

// LLMConfig resolves the provider settings. With no llm.provider set the
// vendors' own *_API_KEY variables are probed; ok is false when study-note
// generation should stay disabled.
func (c *Config) LLMConfig() (llm.Config, bool) {
	if c.LLM.Provider == "" {
		return llm.DiscoverConfig()
	}

	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&out.Anthropic.APIKey, c.LLM.Anthropic.APIKey)
	merge(&out.Anthropic.Model, c.LLM.Anthropic.Model)
	merge(&out.OpenAI.APIKey, c.LLM.OpenAI.APIKey)
	merge(&out.OpenAI.Model, c.LLM.OpenAI.Model)
	merge(&out.OpenAI.BaseURL, c.LLM.OpenAI.BaseURL)
	merge(&out.Gemini.APIKey, c.LLM.Gemini.APIKey)
	merge(&out.Gemini.Model, c.LLM.Gemini.Model)
	return out, true
}
