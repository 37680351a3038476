package analyzer

import "github.com/tmc/langchaingo/llms"

const ANALYZE_TRANSCRIPT_PROMPT = `You are reviewing one conversation from a vocabulary tutoring session between a learner and a tutor.

You are given the list of vocabulary words currently being tracked for this learner. Find every place where a tracked word is used in the conversation, in any grammatical form (plural, past tense, -ing form, adverb form, and so on).

For each usage report:
- the word exactly as it appeared in the conversation
- who used it: "learner" or "tutor"
- whether it was used correctly in context
- for learner usages only, a recall quality from 0 to 5 (5 = effortless and precise, 3 = correct but hesitant or prompted, below 3 = wrong or needed correction). Omit quality when you cannot judge it.

Only report words from the tracked list. Do not report a word the conversation merely talks about spelling or defining without using it. Report each distinct usage once.

Tracked words: %s`

const reportToolName = "report_word_usages"

var analyzeTranscriptTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        reportToolName,
			Description: "Report every usage of a tracked vocabulary word found in the conversation",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"usages": map[string]any{
						"type":        "array",
						"description": "All detected usages of tracked words, empty if none were used",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"word": map[string]any{
									"type":        "string",
									"description": "The word exactly as it appeared in the conversation",
								},
								"speaker": map[string]any{
									"type": "string",
									"enum": []string{"learner", "tutor"},
								},
								"used_correctly": map[string]any{
									"type": "boolean",
								},
								"quality": map[string]any{
									"type":        "integer",
									"description": "Recall quality 0-5 for learner usages, omitted when unclear",
								},
							},
							"required": []string{"word", "speaker", "used_correctly"},
						},
					},
				},
				"required": []string{"usages"},
			},
		},
	},
}
