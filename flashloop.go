// Package flashloop is the library entrypoint (SPEC_FULL §6): in-process
// hosts — a Playwright test, another Go program already driving a page —
// call Run against a page they already opened, instead of shelling out to
// the flash-loop binary. Grounded on the teacher's internal/agent.Agent
// (ExecuteTask's launch-then-run wrapping), generalized from the
// teacher's task-repository-backed single mode to the spec's run/library
// split: this entrypoint always runs "hosted" (internal/loop.Hosted),
// reusing the caller's page and browsing context rather than launching a
// new one.
package flashloop

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"flashloop/internal/config"
	"flashloop/internal/loop"
	"flashloop/internal/planner"
	"flashloop/internal/platform/cerebras"
	"flashloop/internal/platform/pw"
	"flashloop/internal/runledger"
)

// Options controls one hosted run.
type Options struct {
	Interactive bool
	MaxSteps    int
	Menu        loop.Menu // required when Interactive is true

	// Ledger is optional; when nil, runs are not recorded anywhere (no
	// Run Ledger database is assumed available in-process).
	Ledger loop.Ledger
}

// noopLedger satisfies loop.Ledger without a database, for hosts that pass
// no Options.Ledger — e.g. a Playwright test run with no Postgres handy.
type noopLedger struct{}

func (noopLedger) StartRun(goal string) (uint, error) { return 0, nil }
func (noopLedger) FinishRun(uint, runledger.Outcome, int, string) error { return nil }
func (noopLedger) RecordLLMCall(uint, string, string, string, int) error { return nil }

// Run drives the Loop against an already-open page toward goal, returning
// the generated script text. When invoked from a CI environment (CI=true
// without ALLOW_AI_IN_CI), it short-circuits to a no-op and returns an
// annotation instead of calling the LLM (spec §6).
func Run(ctx context.Context, page playwright.Page, goal string, opts Options) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("flashloop: loading config: %w", err)
	}

	if cfg.CI.ShortCircuitAI() {
		return fmt.Sprintf("// flash-loop skipped under CI (set ALLOW_AI_IN_CI=true to enable): %s", goal), nil
	}

	llmClient := cerebras.New(cerebras.Config{
		APIKey:            cfg.Cerebras.APIKey,
		Model:             cfg.Cerebras.Model,
		BaseURL:           cfg.Cerebras.BaseURL,
		RequestsPerMinute: cfg.Cerebras.RequestsPerMinute,
		TokensPerHour:     cfg.Cerebras.TokensPerHour,
	})
	p := planner.New(llmClient)

	ledger := opts.Ledger
	if ledger == nil {
		ledger = noopLedger{}
	}

	driverPage := pw.WrapPage(page)
	driverCtx := pw.WrapContext(page.Context())

	loopCfg := loop.Config{
		MaxSteps:    opts.MaxSteps,
		Interactive: opts.Interactive,
		Menu:        opts.Menu,
		Model:       cfg.Cerebras.Model,
	}

	l := loop.Hosted(driverPage, driverCtx, p, ledger, goal, loopCfg)
	return l.Run(ctx, goal)
}
