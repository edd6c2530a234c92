package coach

import "github.com/abhisek/pathwise/internal/llm"

// StudyNoteSchema is the structured output requested from the model.
var StudyNoteSchema = &llm.Schema{
	Name:        "study-note",
	Description: "A short revision note for a learner who struggled with a quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title naming the concept to revisit (3-8 words)",
				"minLength":   1,
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining what went wrong and the idea to hold on to",
				"minLength":   1,
			},
			"focus_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"maxItems":    4,
				"description": "2-4 concrete things to focus on while reviewing (under 15 words each)",
			},
		},
		"required":             []any{"title", "summary", "focus_points"},
		"additionalProperties": false,
	},
}
