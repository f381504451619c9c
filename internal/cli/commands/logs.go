package commands

import (
	"fmt"
	"strconv"

	"flashloop/internal/cli/ui"
	"flashloop/internal/runledger"

	"go.uber.org/zap"
)

// LogsHandler implements the `logs <run-id>` subcommand.
type LogsHandler struct {
	repo *runledger.Repository
	log  *zap.Logger
}

func NewLogsHandler(repo *runledger.Repository, log *zap.Logger) *LogsHandler {
	return &LogsHandler{repo: repo, log: log}
}

// Show prints every LLM Call Record for a run, oldest first.
func (h *LogsHandler) Show(idStr string) {
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

	fmt.Printf("\n"+ui.ColorBold+"=== "+ui.IconList+" LLM calls for run #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Printf(ui.ColorCyan+"Goal:"+ui.ColorReset+" %s\n\n", run.Goal)

	calls, err := h.repo.ListLLMCalls(run.ID)
	if err != nil {
		h.log.Error("listing LLM calls", zap.Error(err))
		fmt.Println(ui.ColorRed + ui.IconCross + " failed to list LLM calls" + ui.ColorReset)
		return
	}

	if len(calls) == 0 {
		fmt.Println(ui.ColorGray + "no LLM calls recorded" + ui.ColorReset)
		return
	}

	for _, c := range calls {
		fmt.Printf(ui.ColorGray+"[%s]"+ui.ColorReset+" "+ui.ColorCyan+"%s"+ui.ColorReset+" ("+ui.ColorGray+"%d tokens"+ui.ColorReset+")\n",
			c.CreatedAt.Format("15:04:05"), c.Model, c.TokensUsed)
		if len(c.PlanJSON) < 200 {
			fmt.Printf("  "+ui.ColorGreen+"plan:"+ui.ColorReset+" %s\n", c.PlanJSON)
		}
	}
	fmt.Println()
}
