package gateway

import "github.com/edumind/edumind/internal/llm"

// Providers with strict structured output want an object at the schema
// root, so list-shaped responses are wrapped in a single-field envelope
// that the service unwraps before returning.

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A multiple choice quiz as a list of questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the student",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 answer options",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"description": "0-indexed index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is correct",
						},
					},
					"required":             []any{"question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// PlanSchema defines the JSON schema for study plan generation responses.
var PlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A day-by-day study plan as a list of daily schedules",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"days": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day": map[string]any{
							"type":        "string",
							"description": "Day label, e.g. \"Day 1\"",
						},
						"tasks": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"time": map[string]any{
										"type":        "string",
										"description": "Time slot, e.g. \"09:00 - 10:30\"",
									},
									"task": map[string]any{
										"type":        "string",
										"description": "What to study in this slot",
									},
									"priority": map[string]any{
										"type":        "string",
										"enum":        []any{"High", "Medium", "Low"},
										"description": "How critical this task is",
									},
								},
								"required":             []any{"time", "task", "priority"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"day", "tasks"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"days"},
		"additionalProperties": false,
	},
}
