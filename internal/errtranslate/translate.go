// Package errtranslate maps raw driver errors onto advisory strings the
// Planner can act on. Grounded on the teacher's internal/agent/errors.go
// classifyError, generalized from a 3-bucket retry classification to the
// spec's 6 named categories plus the literal fatal-input message list the
// Executor uses for its retryable/fatal split.
package errtranslate

import (
	"strings"
)

// Category labels a translated error.
type Category string

const (
	CategoryTimeout           Category = "Timeout"
	CategoryClickIntercepted  Category = "Click-intercepted"
	CategoryDetachedStale     Category = "Detached/Stale"
	CategoryNotVisible        Category = "Not-visible"
	CategoryNavigationFailed  Category = "Navigation-failed"
	CategorySelectorSynthFail Category = "Selector-synthesis-failed"
	CategoryUnknown           Category = "Unknown"
)

const maxUnknownMessageLen = 200

type rule struct {
	category  Category
	substrs   []string
	guidance  string
}

// order matters: first match wins.
var rules = []rule{
	{
		category: CategoryTimeout,
		substrs:  []string{"timeout", "timed out", "exceeded"},
		guidance: "The action timed out waiting for the element or page. Re-observe the page, confirm the target is present and visible, and consider scrolling to it before retrying.",
	},
	{
		category: CategoryClickIntercepted,
		substrs:  []string{"intercepts pointer events", "element is not receiving events", "overlay", "modal", "subtree intercepts"},
		guidance: "Another element (likely an overlay or modal) is intercepting the interaction. Close or dismiss the blocking element, or choose a different, unobstructed target.",
	},
	{
		category: CategoryDetachedStale,
		substrs:  []string{"detached", "stale", "element is not attached", "not attached to the dom"},
		guidance: "The target element was detached from the DOM, likely due to a re-render. Re-observe the page and pick the target again by its current semantic ID.",
	},
	{
		category: CategoryNotVisible,
		substrs:  []string{"not visible", "hidden", "is not visible"},
		guidance: "The target element exists but is not visible. Scroll it into view or wait for whatever is hiding it to resolve before retrying.",
	},
	{
		category: CategoryNavigationFailed,
		substrs:  []string{"navigation", "net::err", "err_name_not_resolved", "err_connection", "frame was detached"},
		guidance: "Navigation to the target URL failed. Double check the URL is correct and reachable, or try reloading.",
	},
	{
		category: CategorySelectorSynthFail,
		substrs:  []string{"failedrobustselector", "failed to synthesize a robust selector", "no candidate selector"},
		guidance: "No selector could be found that uniquely and visibly matches the target element on the live page. Re-observe the page; the element's identity may have changed.",
	},
}

// FatalInputMessages is the literal substring list the Executor treats as
// fatal (non-retryable) regardless of category, per spec §4.8.
var FatalInputMessages = []string{
	"requires a target",
	"requires targetid",
	"requires a url",
	"unsupported action",
	"not found in memory",
	"not found",
	"target id is missing",
}

// Result is a translated error.
type Result struct {
	Category Category
	Guidance string
}

// String renders the translated error as planner-facing advisory text:
// "<category>: <guidance>".
func (r Result) String() string {
	return string(r.Category) + ": " + r.Guidance
}

// Translate classifies err into a category plus actionable guidance. A nil
// error translates to a zero Result.
func Translate(err error) Result {
	if err == nil {
		return Result{}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	for _, rl := range rules {
		for _, s := range rl.substrs {
			if strings.Contains(lower, s) {
				return Result{Category: rl.category, Guidance: rl.guidance}
			}
		}
	}

	truncated := msg
	if len(truncated) > maxUnknownMessageLen {
		truncated = truncated[:maxUnknownMessageLen]
	}
	return Result{
		Category: CategoryUnknown,
		Guidance: "Unrecognized error: " + truncated,
	}
}

// IsFatalInput reports whether err's message matches one of the literal
// fatal-input substrings from spec §4.8, independent of Translate's
// category — fatal classification is checked first by the Executor.
func IsFatalInput(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	for _, s := range FatalInputMessages {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
