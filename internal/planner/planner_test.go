package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashloop/internal/action"
)

type fakeClient struct {
	resp Response
	err  error
}

func (f *fakeClient) Complete(ctx context.Context, req Request) (Response, error) {
	return f.resp, f.err
}

func TestPlanReturnsValidPlan(t *testing.T) {
	client := &fakeClient{resp: Response{Plan: action.Plan{ActionType: action.Click, TargetID: "button-abc12345-0"}}}
	p := New(client)

	plan, _, err := p.Plan(context.Background(), Request{Goal: "click submit"})
	require.NoError(t, err)
	assert.Equal(t, action.Click, plan.ActionType)
}

func TestPlanReturnsSchemaErrorOnTransportFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset")}
	p := New(client)

	_, _, err := p.Plan(context.Background(), Request{Goal: "click submit"})
	require.Error(t, err)
	var schemaErr SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), ErrSchemaMismatch)
}

func TestPlanReturnsSchemaErrorOnInvalidActionType(t *testing.T) {
	client := &fakeClient{resp: Response{Plan: action.Plan{ActionType: "not_a_real_action"}}}
	p := New(client)

	_, _, err := p.Plan(context.Background(), Request{Goal: "do something"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrSchemaMismatch)
}

func TestPlanReturnsSchemaErrorWhenRequiredFieldMissing(t *testing.T) {
	client := &fakeClient{resp: Response{Plan: action.Plan{ActionType: action.Click}}} // no targetId
	p := New(client)

	_, _, err := p.Plan(context.Background(), Request{Goal: "click something"})
	require.Error(t, err)
}

func TestBuildPromptIncludesDialogBannerAndHistory(t *testing.T) {
	prompt := BuildPrompt(Request{
		Goal:          "buy a hat",
		SymbolicState: "https://shop.example\nHat Shop",
		PendingDialog: "confirm: Leave site?",
		RecentHistory: []string{"SUCCESS: click ID: button-1"},
		LastError:     "Timeout: element did not respond",
	})

	assert.Contains(t, prompt, "[DIALOG PENDING] confirm: Leave site?")
	assert.Contains(t, prompt, "buy a hat")
	assert.Contains(t, prompt, "SUCCESS: click ID: button-1")
	assert.Contains(t, prompt, "Timeout: element did not respond")
}

func TestSystemPromptEnforcesTheFiveRules(t *testing.T) {
	sp := SystemPrompt()
	assert.Contains(t, sp, "semantic ID")
	assert.Contains(t, sp, "scroll")
	assert.Contains(t, sp, "change your strategy")
	assert.Contains(t, sp, "Close tabs")
	assert.Contains(t, sp, "isPlanChanged")
}
