// Package planner is the Planner (spec §4.7): it calls an external LLM via
// a structured-output interface with goal, symbolic state, recent history
// and the last translated error, and returns a structured Action Plan.
// Transport-agnostic per SPEC_FULL §4.7.1 — it depends only on Client below;
// internal/platform/cerebras supplies the concrete OpenAI-compatible
// adapter. Grounded on the teacher's internal/llm package (client.go's
// request/response shape, plan.go's prompt assembly, rate_limiter.go).
package planner

import (
	"context"

	"flashloop/internal/action"
)

// HistoryWindow is the maximum number of recent History Log entries a
// caller should include in Request.RecentHistory (spec §4.7).
const HistoryWindow = 5

// Request is everything the Planner sends the LLM for one step.
type Request struct {
	Goal             string
	SymbolicState    string
	PendingDialog    string // rendered as a banner prefix when non-empty
	RecentHistory    []string
	LastError        string
}

// Response is the transport's structured reply: either a valid plan, or a
// retryable schema-validation failure carrying planner guidance.
type Response struct {
	Plan      action.Plan
	TokensUsed int
}

// Client is the seam the Planner depends on; internal/platform/cerebras
// implements it against an OpenAI-compatible endpoint.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ErrSchemaMismatch is the sentinel guidance the Loop feeds back as
// lastError when the LLM's output didn't satisfy the Action Plan schema
// (SPEC_FULL §4.7.1).
const ErrSchemaMismatch = "return an object matching the schema"

const systemPrompt = `You control a web browser to accomplish the user's goal.

Rules:
1. Always reference elements by their semantic ID exactly as given, using the "ID: <semantic-id>" format from the page state. Never invent a selector yourself.
2. If a target element is reported as not currently visible in the viewport, scroll before attempting to interact with it.
3. If the last action failed, change your strategy — do not repeat the exact same action with the same target.
4. Close tabs that are irrelevant to the goal (ads, trackers, unrelated popups) rather than working around them.
5. Maintain an adaptive plan of remaining steps; set isPlanChanged to true whenever what you observe no longer matches what you expected.

Respond only by calling the provided tool with an object matching its schema.`

// BuildPrompt renders the user-turn content the transport sends alongside
// systemPrompt, including the pending-dialog banner when one exists.
func BuildPrompt(req Request) string {
	var out string
	if req.PendingDialog != "" {
		out += "[DIALOG PENDING] " + req.PendingDialog + "\n\n"
	}
	out += "Goal: " + req.Goal + "\n\n"
	out += "Current page state:\n" + req.SymbolicState + "\n\n"
	if len(req.RecentHistory) > 0 {
		out += "Recent history:\n"
		for _, h := range req.RecentHistory {
			out += "- " + h + "\n"
		}
		out += "\n"
	}
	if req.LastError != "" {
		out += "Last error: " + req.LastError + "\n\n"
	}
	return out
}

// SystemPrompt exposes the fixed system message for transports that need
// it verbatim (and for tests asserting the five rules are present).
func SystemPrompt() string { return systemPrompt }
