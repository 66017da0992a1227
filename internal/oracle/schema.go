package oracle

import "github.com/abhisek/mathquest/internal/llm"

// QuestionSchema is the structured output for question generation.
var QuestionSchema = &llm.Schema{
	Name:        "word-problem",
	Description: "A single math word problem for a child with its numeric answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questionText": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The full text of the word problem, worded for a child",
			},
			"answer": map[string]any{
				"type":        "number",
				"description": "The final numerical answer to the problem",
			},
		},
		"required":             []any{"questionText", "answer"},
		"additionalProperties": false,
	},
}

// SolutionSchema is the structured output for worked solutions.
var SolutionSchema = &llm.Schema{
	Name:        "worked-solution",
	Description: "A step-by-step explanation and an SVG illustration of the solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"textHint": map[string]any{
				"type":        "string",
				"description": "Friendly, encouraging explanation that uses the child's wrong answer",
			},
			"visualSolution": map[string]any{
				"type":        "string",
				"description": "A self-contained SVG string starting with <svg that explains the solution",
			},
		},
		"required":             []any{"textHint", "visualSolution"},
		"additionalProperties": false,
	},
}
