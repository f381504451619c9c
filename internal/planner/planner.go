package planner

import (
	"context"
	"fmt"

	"flashloop/internal/action"
)

// Planner calls the LLM transport and validates the resulting plan against
// the closed Action Plan schema (spec §4.7, stateless between calls).
type Planner struct {
	client Client
}

// New wires a Planner to a transport.
func New(client Client) *Planner {
	return &Planner{client: client}
}

// Plan requests the next action. On a transport error or a plan that fails
// schema validation, it returns a retryable error carrying ErrSchemaMismatch
// guidance so the Loop can feed it back as lastError exactly like a driver
// error (SPEC_FULL §4.7.1). The second return is the transport's reported
// token usage, passed through for the Run Ledger's LLM Call Record
// (SPEC_FULL §4.10.1); it is 0 on error.
func (p *Planner) Plan(ctx context.Context, req Request) (action.Plan, int, error) {
	resp, err := p.client.Complete(ctx, req)
	if err != nil {
		return action.Plan{}, 0, SchemaError{Cause: err}
	}

	if err := resp.Plan.Validate(); err != nil {
		return action.Plan{}, resp.TokensUsed, SchemaError{Cause: err}
	}

	return resp.Plan, resp.TokensUsed, nil
}

// SchemaError wraps any failure to obtain a schema-valid plan — transport
// failure or validation failure alike present the same retryable guidance
// to the Loop, since both mean "ask the model again, more insistently."
type SchemaError struct {
	Cause error
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("planner: %s (%s)", ErrSchemaMismatch, e.Cause)
}

func (e SchemaError) Unwrap() error { return e.Cause }
