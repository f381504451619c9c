package runledger

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the Run Ledger's single write path. Every method is
// called at most twice per run (StartRun, FinishRun) plus once per
// Planner transport call (RecordLLMCall) — it is never consulted by a
// running Loop, only by the CLI's runs/show/logs subcommands.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an already-connected GORM handle. Schema migration
// is a separate concern, run once at process start (see Migrate).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StartRun inserts a new Run row in the "running" state, stamped with a
// fresh external correlation ID, and returns its internal ID.
func (r *Repository) StartRun(goal string) (uint, error) {
	run := &Run{Goal: goal, Outcome: OutcomeRunning, ExternalID: uuid.NewString()}
	if err := r.db.Create(run).Error; err != nil {
		return 0, fmt.Errorf("runledger: creating run record: %w", err)
	}
	return run.ID, nil
}

// FinishRun writes the one terminal update a run ever receives.
func (r *Repository) FinishRun(runID uint, outcome Outcome, stepCount int, emittedScript string) error {
	return r.db.Model(&Run{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"outcome":        outcome,
			"step_count":     stepCount,
			"emitted_script": emittedScript,
		}).Error
}

// RecordLLMCall appends one LLM Call Record. Called by the Loop once per
// successful Planner.Plan call (SPEC_FULL §4.10.1); callers are expected
// to have already sanitized promptText and planJSON.
func (r *Repository) RecordLLMCall(runID uint, model, promptText, planJSON string, tokensUsed int) error {
	rec := &LLMCallRecord{
		RunID:      runID,
		Model:      model,
		PromptText: promptText,
		PlanJSON:   planJSON,
		TokensUsed: tokensUsed,
	}
	return r.db.Create(rec).Error
}

// ListRuns returns the most recent runs, newest first, for the CLI's
// `runs` subcommand.
func (r *Repository) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("runledger: listing runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run by ID, for the CLI's `show` subcommand.
func (r *Repository) GetRun(runID uint) (*Run, error) {
	var run Run
	if err := r.db.First(&run, runID).Error; err != nil {
		return nil, fmt.Errorf("runledger: fetching run %d: %w", runID, err)
	}
	return &run, nil
}

// ListLLMCalls returns every LLM Call Record for a run, oldest first, for
// the CLI's `logs` subcommand.
func (r *Repository) ListLLMCalls(runID uint) ([]LLMCallRecord, error) {
	var calls []LLMCallRecord
	if err := r.db.Where("run_id = ?", runID).Order("id ASC").Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("runledger: listing LLM calls for run %d: %w", runID, err)
	}
	return calls, nil
}
