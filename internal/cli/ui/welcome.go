package ui

import "fmt"

// PrintWelcome prints the REPL's startup banner.
func PrintWelcome() {
	fmt.Println(ColorBold + IconRobot + " flash-loop" + ColorReset)
	fmt.Println(ColorGray + "Autonomous browser agent: observe, plan, act, emit a script" + ColorReset)
	fmt.Println()
	PrintHelp()
	fmt.Println(ColorGray + "Use ↑/↓ to navigate command history" + ColorReset)
	fmt.Println()
}

// PrintHelp prints the REPL's command reference.
func PrintHelp() {
	fmt.Println(ColorYellow + IconList + " Commands:" + ColorReset)
	fmt.Println("  " + ColorGreen + "run" + ColorReset + " <goal>            - run the loop toward a goal")
	fmt.Println("  " + ColorGreen + "runs" + ColorReset + " [limit]          - list recent runs")
	fmt.Println("  " + ColorGreen + "show" + ColorReset + " <run-id>         - show a run's outcome and emitted script")
	fmt.Println("  " + ColorGreen + "logs" + ColorReset + " <run-id>         - show a run's LLM call records")
	fmt.Println("  " + ColorGreen + "clear" + ColorReset + "                 - clear the screen")
	fmt.Println("  " + ColorGreen + "exit" + ColorReset + "                  - exit")
	fmt.Println()
}
