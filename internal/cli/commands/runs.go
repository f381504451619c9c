// Package commands holds the CLI's per-subcommand presentation logic,
// grounded on the teacher's internal/cli/commands package (one handler
// struct per subcommand, repository-backed, zap-logged), retargeted from
// Task/AgentStep rows to Run/LLMCallRecord rows.
package commands

import (
	"fmt"

	"flashloop/internal/cli/ui"
	"flashloop/internal/runledger"

	"go.uber.org/zap"
)

// RunsHandler implements the `runs` subcommand.
type RunsHandler struct {
	repo *runledger.Repository
	log  *zap.Logger
}

func NewRunsHandler(repo *runledger.Repository, log *zap.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, log: log}
}

// List prints the most recent runs, newest first.
func (h *RunsHandler) List(limit int) {
	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.log.Error("listing runs", zap.Error(err))
		fmt.Println(ui.ColorRed + ui.IconCross + " failed to list runs" + ui.ColorReset)
		return
	}

	if len(runs) == 0 {
		fmt.Println(ui.ColorGray + "no runs yet" + ui.ColorReset)
		return
	}

	fmt.Println("\n" + ui.ColorBold + ui.IconList + " Runs:" + ui.ColorReset)
	fmt.Println()
	for _, r := range runs {
		icon, color, text := ui.FormatOutcome(r.Outcome)
		fmt.Printf("  "+ui.ColorBold+"#%d"+ui.ColorReset+" %s%s %s"+ui.ColorReset+" ("+ui.ColorGray+"%d steps"+ui.ColorReset+")\n",
			r.ID, color, icon, text, r.StepCount)
		fmt.Printf("  "+ui.ColorGray+"└─"+ui.ColorReset+" %s\n", r.Goal)
		fmt.Println()
	}
}
