package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashloop/internal/action"
	"flashloop/internal/browserdriver"
	"flashloop/internal/observer"
	"flashloop/internal/planner"
	"flashloop/internal/runledger"
)

type fakeFrame struct{ url string }

func (f *fakeFrame) Name() string                      { return "" }
func (f *fakeFrame) URL() string                        { return f.url }
func (f *fakeFrame) ParentFrame() browserdriver.Frame   { return nil }
func (f *fakeFrame) ChildFrames() []browserdriver.Frame { return nil }
func (f *fakeFrame) IsDetached() bool                   { return false }
func (f *fakeFrame) Evaluate(string, any) (any, error)  { return []map[string]any{}, nil }

type fakePage struct {
	url     string
	closed  bool
	gotoURL string
}

func (p *fakePage) URL() string                         { return p.url }
func (p *fakePage) Title() (string, error)               { return "", nil }
func (p *fakePage) IsClosed() bool                        { return p.closed }
func (p *fakePage) Goto(u string, d time.Duration) error  { p.gotoURL = u; p.url = u; return nil }
func (p *fakePage) Reload() error                          { return nil }
func (p *fakePage) GoBack() error                          { return nil }
func (p *fakePage) BringToFront() error                    { return nil }
func (p *fakePage) Close() error                            { p.closed = true; return nil }
func (p *fakePage) Evaluate(string, any) (any, error)       { return nil, nil }
func (p *fakePage) WaitForLoadState(string, time.Duration) error { return nil }
func (p *fakePage) MainFrame() browserdriver.Frame          { return &fakeFrame{url: p.url} }
func (p *fakePage) Frames() []browserdriver.Frame            { return []browserdriver.Frame{&fakeFrame{url: p.url}} }
func (p *fakePage) Scope([]string) browserdriver.LocatorScope { return nil }
func (p *fakePage) OnDialog(func(browserdriver.Dialog))      {}
func (p *fakePage) OnClose(func())                            {}

type fakeContext struct{ page browserdriver.Page }

func (c *fakeContext) Pages() []browserdriver.Page     { return []browserdriver.Page{c.page} }
func (c *fakeContext) NewPage() (browserdriver.Page, error) { return c.page, nil }
func (c *fakeContext) OnPage(func(browserdriver.Page)) {}

type fakeClient struct {
	plans []action.Plan
	errs  []error
	calls int
}

func (c *fakeClient) Complete(ctx context.Context, req planner.Request) (planner.Response, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return planner.Response{}, c.errs[i]
	}
	if i >= len(c.plans) {
		return planner.Response{Plan: c.plans[len(c.plans)-1]}, nil
	}
	return planner.Response{Plan: c.plans[i]}, nil
}

type fakeLedger struct {
	startErr  error
	runID     uint
	finished  bool
	outcome   runledger.Outcome
	stepCount int
	output    string
	llmCalls  int
}

func (l *fakeLedger) StartRun(goal string) (uint, error) {
	if l.startErr != nil {
		return 0, l.startErr
	}
	l.runID = 1
	return l.runID, nil
}

func (l *fakeLedger) FinishRun(runID uint, outcome runledger.Outcome, stepCount int, emittedScript string) error {
	l.finished = true
	l.outcome = outcome
	l.stepCount = stepCount
	l.output = emittedScript
	return nil
}

func (l *fakeLedger) RecordLLMCall(runID uint, model, promptText, planJSON string, tokensUsed int) error {
	l.llmCalls++
	return nil
}

type fakeMenu struct {
	decisions []Decision
	overrides []string
	calls     int
}

func (m *fakeMenu) Prompt(plan action.Plan, state observer.State) (Decision, string, error) {
	i := m.calls
	m.calls++
	override := ""
	if i < len(m.overrides) {
		override = m.overrides[i]
	}
	if i < len(m.decisions) {
		return m.decisions[i], override, nil
	}
	return DecisionQuit, "", nil
}

func newTestLoop(t *testing.T, page *fakePage, client *fakeClient, ledger *fakeLedger, cfg Config) *Loop {
	t.Helper()
	ctxMgr := &fakeContext{page: page}
	p := planner.New(client)
	return Hosted(page, ctxMgr, p, ledger, "test goal", cfg)
}

func TestRunExitsImmediatelyWhenPlanIsFinished(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Finish, IsFinished: true}}}
	ledger := &fakeLedger{}

	l := newTestLoop(t, page, client, ledger, Config{})
	out, err := l.Run(context.Background(), "do the thing")

	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.True(t, ledger.finished)
	assert.Equal(t, runledger.OutcomeSucceeded, ledger.outcome)
	assert.Equal(t, 1, ledger.stepCount)
	assert.Equal(t, 1, ledger.llmCalls)
}

func TestRunReachesStepCapAndReturnsError(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Reload}}}
	ledger := &fakeLedger{}

	l := newTestLoop(t, page, client, ledger, Config{MaxSteps: 3})
	_, err := l.Run(context.Background(), "do the thing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "step cap")
	assert.Equal(t, runledger.OutcomeFailed, ledger.outcome)
	assert.Equal(t, 3, ledger.stepCount)
}

func TestRunStopsOnFatalNonRetryableError(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Click, TargetID: "missing-id"}}}
	ledger := &fakeLedger{}

	l := newTestLoop(t, page, client, ledger, Config{MaxSteps: 5})
	_, err := l.Run(context.Background(), "do the thing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal action error")
	assert.Equal(t, runledger.OutcomeFailed, ledger.outcome)
}

func TestRunFeedsPlannerTransportErrorBackAsLastErrorAndRetries(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{
		errs:  []error{assertErr("transport down"), nil},
		plans: []action.Plan{{}, {ActionType: action.Finish, IsFinished: true}},
	}
	ledger := &fakeLedger{}

	l := newTestLoop(t, page, client, ledger, Config{MaxSteps: 5})
	_, err := l.Run(context.Background(), "do the thing")

	require.NoError(t, err)
	assert.Equal(t, runledger.OutcomeSucceeded, ledger.outcome)
}

func TestRunInteractiveSkipThenQuit(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Reload}}}
	ledger := &fakeLedger{}
	menu := &fakeMenu{decisions: []Decision{DecisionSkip, DecisionQuit}}

	l := newTestLoop(t, page, client, ledger, Config{MaxSteps: 10, Interactive: true, Menu: menu})
	_, err := l.Run(context.Background(), "do the thing")

	require.NoError(t, err)
	assert.Equal(t, runledger.OutcomeAborted, ledger.outcome)
	assert.Equal(t, 2, menu.calls)
}

func TestRunInteractiveOverrideChangesActionType(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Reload}}}
	ledger := &fakeLedger{}
	menu := &fakeMenu{decisions: []Decision{DecisionOverride}, overrides: []string{string(action.GoBack)}}

	l := newTestLoop(t, page, client, ledger, Config{MaxSteps: 1, Interactive: true, Menu: menu})
	_, err := l.Run(context.Background(), "do the thing")

	require.Error(t, err) // step cap reached after the one overridden step
	assert.Equal(t, 1, menu.calls)
}

func TestRunReturnsErrorWhenLedgerFailsToStart(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	client := &fakeClient{}
	ledger := &fakeLedger{startErr: assertErr("db down")}

	l := newTestLoop(t, page, client, ledger, Config{})
	_, err := l.Run(context.Background(), "do the thing")

	require.Error(t, err)
}

type fakeOwnedBrowser struct {
	page   *fakePage
	ctx    *fakeContext
	closed bool
}

func (b *fakeOwnedBrowser) Context() browserdriver.Context       { return b.ctx }
func (b *fakeOwnedBrowser) FirstPage() (browserdriver.Page, error) { return b.page, nil }
func (b *fakeOwnedBrowser) Close() error                           { b.closed = true; return nil }

func TestOwnedNavigatesToStartURLAndClosesBrowserOnFinish(t *testing.T) {
	page := &fakePage{url: "https://example.com"}
	browser := &fakeOwnedBrowser{page: page, ctx: &fakeContext{page: page}}
	client := &fakeClient{plans: []action.Plan{{ActionType: action.Finish, IsFinished: true}}}
	ledger := &fakeLedger{}

	dir := t.TempDir()
	l, err := Owned(browser, "https://example.com/start", dir, "owned goal", planner.New(client), ledger, Config{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/start", page.gotoURL)

	out, err := l.Run(context.Background(), "owned goal")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, browser.closed)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
