package ui

import (
	"fmt"

	"flashloop/internal/runledger"
)

// FormatOutcome returns the icon, color and label for a Run's outcome.
func FormatOutcome(outcome runledger.Outcome) (icon, color, text string) {
	switch outcome {
	case runledger.OutcomeSucceeded:
		return IconCheckmark, ColorGreen, "succeeded"
	case runledger.OutcomeFailed:
		return IconCross, ColorRed, "failed"
	case runledger.OutcomeRunning:
		return IconPlay, ColorCyan, "running"
	case runledger.OutcomeAborted:
		return IconClock, ColorYellow, "aborted"
	default:
		return IconClock, ColorYellow, string(outcome)
	}
}

// ClearScreen clears the terminal.
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}
