package cerebras

import (
	openai "github.com/sashabaranov/go-openai"

	"flashloop/internal/action"
)

const submitPlanToolName = "submit_plan"

// submitPlanTool is the single forced tool whose arguments schema mirrors
// action.Plan exactly, so the model's only legal output is an Action-Plan-
// shaped JSON object.
func submitPlanTool() openai.Tool {
	enum := make([]string, 0, len(action.AllTypes()))
	for _, t := range action.AllTypes() {
		enum = append(enum, string(t))
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        submitPlanToolName,
			Description: "Submit the next action to perform against the page.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"thought": map[string]any{
						"type":        "string",
						"description": "Free-text reasoning about the current state and next step.",
					},
					"plan": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"currentStatus": map[string]any{"type": "string"},
							"remainingSteps": map[string]any{
								"type":     "array",
								"items":    map[string]any{"type": "string"},
								"maxItems": 3,
							},
							"isPlanChanged": map[string]any{"type": "boolean"},
						},
					},
					"actionType": map[string]any{
						"type": "string",
						"enum": enum,
					},
					"targetId": map[string]any{
						"type":        "string",
						"description": "Semantic ID of the target element, exactly as given in the page state.",
					},
					"targetId2": map[string]any{
						"type":        "string",
						"description": "Second semantic ID, used only by drag_and_drop.",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Action parameter: text, URL, key name, file path, tab selector, or accept/dismiss.",
					},
					"isFinished": map[string]any{"type": "boolean"},
				},
				"required": []string{"actionType"},
			},
		},
	}
}
