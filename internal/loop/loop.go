// Package loop is the Loop (spec §4.10): it orchestrates one run end to
// end — observe, plan, (optionally) confirm, execute, record — bounded by
// a step cap, and owns the Run Ledger write at entry and exit. Grounded on
// the teacher's internal/agent/agent.go (executeSteps' per-step sequencing
// and ExecuteTask's launch/defer-close wrapping), generalized from the
// teacher's fixed action set and task-repository bookkeeping to the
// spec's symbolic-state/plan/execute cycle and append-only ledger.
package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flashloop/internal/action"
	"flashloop/internal/browserdriver"
	"flashloop/internal/executor"
	"flashloop/internal/history"
	"flashloop/internal/observer"
	"flashloop/internal/pagectx"
	"flashloop/internal/planner"
	"flashloop/internal/runledger"
	"flashloop/internal/sanitizer"
	"flashloop/internal/scriptemitter"
)

// Ledger is the subset of internal/runledger.Repository the Loop needs —
// one write at entry, one at exit. Declared as an interface here so tests
// can substitute a fake instead of a live Postgres-backed Repository.
type Ledger interface {
	StartRun(goal string) (uint, error)
	FinishRun(runID uint, outcome runledger.Outcome, stepCount int, emittedScript string) error
	RecordLLMCall(runID uint, model, promptText, planJSON string, tokensUsed int) error
}

// DefaultMaxSteps is the spec's default step cap.
const DefaultMaxSteps = 20

// keepaliveInterval is how often the Loop pings the page while the
// interactive menu is blocked on user input, so the browser session does
// not time out (spec §4.10 step 6).
const keepaliveInterval = 60 * time.Second

// Config controls one run of the Loop.
type Config struct {
	MaxSteps    int
	Interactive bool
	Menu        Menu // required when Interactive is true
	ObserveCfg  observer.Config
	Model       string // transport model name, recorded on each LLM Call Record
}

func (c Config) withDefaults() Config {
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.ObserveCfg.DOMContentLoadedTimeout == 0 {
		c.ObserveCfg = observer.DefaultConfig()
	}
	if c.Model == "" {
		c.Model = "unknown"
	}
	return c
}

// Loop is one run's orchestrator. Construct with Hosted or Owned.
type Loop struct {
	ctxMgr  *pagectx.Manager
	planner *planner.Planner
	exec    *executor.Executor
	emitter scriptemitter.Emitter
	history *history.Log
	ledger  Ledger
	cfg     Config
	redact  *sanitizer.DataSanitizer

	closeBrowser func() error // nil in hosted mode
}

// Hosted constructs a Loop reusing an externally supplied page's browsing
// context and a memory-backed Script Emitter, per spec §4.10's "hosted"
// mode.
func Hosted(page browserdriver.Page, browserCtx browserdriver.Context, p *planner.Planner, ledger Ledger, goal string, cfg Config) *Loop {
	ctxMgr := pagectx.New(browserCtx, page, pagectx.DefaultDialogTimeout)
	return &Loop{
		ctxMgr:  ctxMgr,
		planner: p,
		exec:    executor.New(ctxMgr),
		emitter: scriptemitter.NewMemory(goal),
		history: history.New(),
		ledger:  ledger,
		cfg:     cfg.withDefaults(),
		redact:  sanitizer.New(),
	}
}

// OwnedBrowser is the subset of internal/platform/pw.Browser the Loop needs
// in "owned" mode — launching its own context and closing it on exit.
type OwnedBrowser interface {
	Context() browserdriver.Context
	FirstPage() (browserdriver.Page, error)
	Close() error
}

// Owned constructs a Loop that launched (and therefore owns) browser,
// optionally navigating the first page to startURL, and emits to a
// timestamped file via the Script Emitter's file mode, per spec §4.10's
// "owned" mode.
func Owned(browser OwnedBrowser, startURL, outDir, goal string, p *planner.Planner, ledger Ledger, cfg Config) (*Loop, error) {
	page, err := browser.FirstPage()
	if err != nil {
		return nil, fmt.Errorf("loop: getting first page: %w", err)
	}
	if startURL != "" {
		if err := page.Goto(startURL, 30*time.Second); err != nil {
			return nil, fmt.Errorf("loop: navigating to start URL: %w", err)
		}
	}

	emitter, err := scriptemitter.NewFile(outDir, goal, time.Now())
	if err != nil {
		return nil, fmt.Errorf("loop: creating script emitter: %w", err)
	}

	ctxMgr := pagectx.New(browser.Context(), page, pagectx.DefaultDialogTimeout)
	return &Loop{
		ctxMgr:       ctxMgr,
		planner:      p,
		exec:         executor.New(ctxMgr),
		emitter:      emitter,
		history:      history.New(),
		ledger:       ledger,
		cfg:          cfg.withDefaults(),
		redact:       sanitizer.New(),
		closeBrowser: browser.Close,
	}, nil
}

// Run executes the step loop for goal until finished, step-capped, or
// cancelled, and returns the Script Emitter's output (a string in memory
// mode, a path in file mode).
func (l *Loop) Run(ctx context.Context, goal string) (string, error) {
	runID, err := l.ledger.StartRun(goal)
	if err != nil {
		return "", fmt.Errorf("loop: starting run record: %w", err)
	}

	outcome := runledger.OutcomeFailed
	stepCount := 0
	defer func() {
		output := l.finish()
		_ = l.ledger.FinishRun(runID, outcome, stepCount, output)
	}()

	var lastError string

	for step := 1; step <= l.cfg.MaxSteps; step++ {
		select {
		case <-ctx.Done():
			outcome = runledger.OutcomeAborted
			return l.currentOutput(), ctx.Err()
		default:
		}

		stepCount = step

		page := l.ctxMgr.ActivePage()
		if page == nil {
			outcome = runledger.OutcomeFailed
			return l.currentOutput(), fmt.Errorf("loop: no active page")
		}

		state, err := observer.Observe(page, l.cfg.ObserveCfg)
		if err != nil {
			lastError = fmt.Sprintf("observation failed: %v", err)
			continue
		}

		dialogBanner := ""
		if pd := l.ctxMgr.PendingDialog(); pd != nil {
			dialogBanner = fmt.Sprintf("%s: %s", pd.Type, pd.Message)
		}

		planReq := planner.Request{
			Goal:          goal,
			SymbolicState: state.Text,
			PendingDialog: dialogBanner,
			RecentHistory: l.history.Last(planner.HistoryWindow),
			LastError:     lastError,
		}
		plan, tokensUsed, err := l.planner.Plan(ctx, planReq)
		if err != nil {
			lastError = err.Error()
			continue
		}
		l.recordLLMCall(runID, planReq, plan, tokensUsed)

		if plan.IsFinished && !l.cfg.Interactive {
			outcome = runledger.OutcomeSucceeded
			return l.currentOutput(), nil
		}

		if l.cfg.Interactive {
			decision, override, err := l.runMenu(page, plan, state)
			if err != nil {
				outcome = runledger.OutcomeAborted
				return l.currentOutput(), err
			}
			switch decision {
			case DecisionQuit:
				outcome = runledger.OutcomeAborted
				return l.currentOutput(), nil
			case DecisionSkip:
				continue
			case DecisionOverride:
				plan.ActionType = action.Type(override)
			case DecisionExecute:
				// fall through to execution below
			}
			if plan.IsFinished {
				outcome = runledger.OutcomeSucceeded
				return l.currentOutput(), nil
			}
		}

		result := l.exec.Execute(page, plan, state.Catalog)
		if result.Success {
			l.history.AddSuccess(l.redact.Sanitize(describeAction(plan)))
			if result.GeneratedCode != "" {
				l.emitter.AppendCode(result.GeneratedCode, plan.Thought)
			}
			lastError = ""
		} else {
			l.history.AddError(l.redact.Sanitize(describeAction(plan)), l.redact.Sanitize(result.UserGuidance))
			lastError = result.UserGuidance
			if !result.Retryable && !l.cfg.Interactive {
				outcome = runledger.OutcomeFailed
				return l.currentOutput(), fmt.Errorf("loop: fatal action error: %w", result.Err)
			}
		}
	}

	outcome = runledger.OutcomeFailed
	return l.currentOutput(), fmt.Errorf("loop: step cap (%d) reached", l.cfg.MaxSteps)
}

// runMenu presents plan to the interactive menu while running a 60-s
// keepalive ping against page so the browser session does not idle out
// during a human's decision (spec §4.10 step 6).
func (l *Loop) runMenu(page browserdriver.Page, plan action.Plan, state observer.State) (Decision, string, error) {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(keepaliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_, _ = page.Evaluate("document.title", nil)
			}
		}
	}()
	defer close(stop)

	return l.cfg.Menu.Prompt(plan, state)
}

// recordLLMCall appends one LLM Call Record (SPEC_FULL §4.10.1). It is
// best-effort: a ledger write failure here must never abort a run that
// otherwise succeeded.
func (l *Loop) recordLLMCall(runID uint, req planner.Request, plan action.Plan, tokensUsed int) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return
	}
	prompt := l.redact.Sanitize(planner.BuildPrompt(req))
	sanitizedPlan := l.redact.Sanitize(string(planJSON))
	_ = l.ledger.RecordLLMCall(runID, l.cfg.Model, prompt, sanitizedPlan, tokensUsed)
}

func (l *Loop) finish() string {
	_ = l.emitter.Finish()
	if l.closeBrowser != nil {
		_ = l.closeBrowser()
	}
	return l.emitter.GetOutput()
}

func (l *Loop) currentOutput() string {
	return l.emitter.GetOutput()
}

func describeAction(plan action.Plan) string {
	if plan.TargetID != "" {
		return fmt.Sprintf("%s ID: %s", plan.ActionType, plan.TargetID)
	}
	if plan.Value != "" {
		return fmt.Sprintf("%s %s", plan.ActionType, plan.Value)
	}
	return string(plan.ActionType)
}
