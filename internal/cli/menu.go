package cli

import (
	"fmt"
	"strings"

	"flashloop/internal/action"
	"flashloop/internal/cli/ui"
	"flashloop/internal/loop"
	"flashloop/internal/observer"
)

// ReadlineMenu implements loop.Menu by presenting the planned action to a
// human over readLine and waiting for execute/override/skip/quit, per
// SPEC_FULL §4.10 step 6. Takes a plain readLine callback rather than a
// concrete readline.Instance so a non-interactive build never links the
// prompt library into the decision path — only the caller that builds a
// real CLI.ReadlineMenu does.
type ReadlineMenu struct {
	readLine func() (string, error)
}

func NewReadlineMenu(readLine func() (string, error)) *ReadlineMenu {
	return &ReadlineMenu{readLine: readLine}
}

// Prompt implements loop.Menu.
func (m *ReadlineMenu) Prompt(plan action.Plan, state observer.State) (loop.Decision, string, error) {
	fmt.Println()
	fmt.Println(ui.ColorGray + state.URL + ui.ColorReset)
	if plan.Thought != "" {
		fmt.Println(ui.ColorCyan + ui.IconChat + " " + plan.Thought + ui.ColorReset)
	}
	fmt.Printf(ui.ColorBold+"Next action:"+ui.ColorReset+" %s", plan.ActionType)
	if plan.TargetID != "" {
		fmt.Printf(" ID: %s", plan.TargetID)
	}
	if plan.Value != "" {
		fmt.Printf(" value: %q", plan.Value)
	}
	fmt.Println()

	for {
		fmt.Print(ui.ColorYellow + "[e]xecute / [o]verride / [s]kip / [q]uit > " + ui.ColorReset)
		line, err := m.readLine()
		if err != nil {
			return loop.DecisionQuit, "", err
		}
		choice := strings.ToLower(strings.TrimSpace(line))

		switch choice {
		case "", "e", "execute":
			return loop.DecisionExecute, "", nil
		case "s", "skip":
			return loop.DecisionSkip, "", nil
		case "q", "quit":
			return loop.DecisionQuit, "", nil
		case "o", "override":
			fmt.Print("new action type > ")
			override, err := m.readLine()
			if err != nil {
				return loop.DecisionQuit, "", err
			}
			return loop.DecisionOverride, strings.TrimSpace(override), nil
		default:
			fmt.Println(ui.ColorRed + ui.IconCross + " unrecognized choice" + ui.ColorReset)
		}
	}
}
