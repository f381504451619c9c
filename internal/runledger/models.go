// Package runledger is the Run Ledger (SPEC_FULL §3.1, §4.10.1): an
// append/update-only audit trail of completed or aborted runs and the LLM
// calls made during them, queried only by the CLI's inspection
// subcommands and never read back into a live Loop. Grounded on the
// teacher's internal/database package (GORM + Postgres models and a
// repository type), retargeted from Task/AgentStep/LlmLog — which a
// running agent reads back mid-task — to Run/LLMCallRecord, which a
// finished Loop writes exactly twice per run (start, finish).
package runledger

import "time"

// Outcome is a run's terminal status.
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeAborted   Outcome = "aborted"
)

// Run is one row per Loop invocation. ExternalID is a UUID assigned at
// StartRun, independent of the autoincrement primary key, so a run can be
// correlated from outside this database (a CI job's logs, a support
// ticket) without leaking the internal row id.
type Run struct {
	ID            uint      `gorm:"primaryKey"`
	ExternalID    string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	Goal          string    `gorm:"type:text;not null"`
	Outcome       Outcome   `gorm:"type:varchar(16);not null;default:'running'"`
	StepCount     int       `gorm:"not null;default:0"`
	EmittedScript string    `gorm:"type:text"` // inline script (memory mode) or file path (file mode)
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// LLMCallRecord is one row per Planner transport call, sanitized before
// being written (SPEC_FULL §9.3).
type LLMCallRecord struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      uint      `gorm:"index;not null"`
	Model      string    `gorm:"type:varchar(64)"`
	PromptText string    `gorm:"type:text;not null"`
	PlanJSON   string    `gorm:"type:text"`
	TokensUsed int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
