package commands

import (
	"fmt"
	"strconv"

	"flashloop/internal/cli/ui"
	"flashloop/internal/runledger"

	"go.uber.org/zap"
)

// ShowHandler implements the `show <run-id>` subcommand.
type ShowHandler struct {
	repo *runledger.Repository
	log  *zap.Logger
}

func NewShowHandler(repo *runledger.Repository, log *zap.Logger) *ShowHandler {
	return &ShowHandler{repo: repo, log: log}
}

// Show prints one run's goal, outcome and emitted script.
func (h *ShowHandler) Show(idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " invalid run id" + ui.ColorReset)
		return
	}

	run, err := h.repo.GetRun(uint(id))
	if err != nil {
		h.log.Error("fetching run", zap.Error(err))
		fmt.Println(ui.ColorRed + ui.IconCross + " run not found" + ui.ColorReset)
		return
	}

	icon, color, text := ui.FormatOutcome(run.Outcome)

	fmt.Printf("\n"+ui.ColorBold+"=== Run #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Printf(ui.ColorCyan+ui.IconDocument+" Goal:"+ui.ColorReset+" %s\n", run.Goal)
	fmt.Printf(ui.ColorCyan+ui.IconChart+" Outcome:"+ui.ColorReset+" %s%s %s"+ui.ColorReset+"\n", color, icon, text)
	fmt.Printf(ui.ColorCyan+ui.IconLoop+" Steps:"+ui.ColorReset+" %d\n", run.StepCount)
	fmt.Printf(ui.ColorCyan+ui.IconTime+" Started:"+ui.ColorReset+" %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))

	if run.EmittedScript != "" {
		fmt.Println("\n" + ui.ColorYellow + ui.IconList + " Emitted script:" + ui.ColorReset)
		fmt.Println(run.EmittedScript)
	} else {
		fmt.Println("\n" + ui.ColorGray + "no script was emitted" + ui.ColorReset)
	}
	fmt.Println()
}
