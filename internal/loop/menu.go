package loop

import (
	"flashloop/internal/action"
	"flashloop/internal/observer"
)

// Decision is the human operator's response to one proposed plan in
// interactive mode (spec §4.10 step 6).
type Decision string

const (
	DecisionExecute  Decision = "execute"
	DecisionOverride Decision = "override"
	DecisionSkip     Decision = "skip"
	DecisionQuit     Decision = "quit"
)

// Menu is the capability interface the interactive step-override prompt is
// built behind, so a non-interactive build compiles without a prompt
// library linked into the decision path (SPEC_FULL §6.1). internal/cli
// supplies a readline-backed implementation; tests supply a scripted one.
type Menu interface {
	// Prompt presents plan (derived from state) to the operator and
	// returns their decision. When the decision is DecisionOverride, the
	// second return value is the replacement action type string.
	Prompt(plan action.Plan, state observer.State) (Decision, string, error)
}
