// Package stability implements the DOM-quiescence detector (spec §4.1).
// It installs a MutationObserver inside the page (grounded on the teacher's
// internal/extractor/extractor.go inline-JS-evaluation idiom) and polls it
// from Go until either a stable idle window elapses or a soft cap is hit.
package stability

import (
	"errors"
	"strings"
	"time"

	"flashloop/internal/browserdriver"
)

// Config holds the waiter's two tunables (spec §4.1 defaults).
type Config struct {
	StabilityDuration time.Duration
	MaxTimeout        time.Duration
	pollInterval      time.Duration
}

// DefaultConfig returns the spec's defaults: 300ms idle window, 2000ms cap.
func DefaultConfig() Config {
	return Config{
		StabilityDuration: 300 * time.Millisecond,
		MaxTimeout:        2000 * time.Millisecond,
		pollInterval:      50 * time.Millisecond,
	}
}

// Result is the waiter's outcome.
type Result struct {
	Achieved bool
	Duration time.Duration
}

// installScript arms a MutationObserver on document.body and records, on
// window, the timestamp of the last mutation batch that was not purely
// noisy per the spec's noisy-mutation rule. It is idempotent: calling it
// again on the same page just re-arms the observer and resets the ledger.
const installScript = `() => {
	if (!document.body) return false;

	if (window.__flashloopStabilityObserver) {
		window.__flashloopStabilityObserver.disconnect();
	}

	window.__flashloopLastRealMutation = Date.now();

	const noisyTags = new Set(['video', 'audio', 'svg', 'path', 'canvas']);
	const noisyHints = ['spinner', 'loader', 'loading', 'progress', 'busy'];

	function isNoisyTarget(node) {
		if (!node || node.nodeType !== 1) return true;
		const tag = node.tagName ? node.tagName.toLowerCase() : '';
		if (noisyTags.has(tag)) return true;

		const classAndId = ((node.className || '') + ' ' + (node.id || '')).toLowerCase();
		if (noisyHints.some(hint => classAndId.includes(hint))) return true;

		if (node.getAttribute && node.getAttribute('aria-busy') === 'true') return true;
		if (node.hasAttributes && node.hasAttributes()) {
			for (const attr of node.attributes) {
				if (attr.name.indexOf('data-loading') === 0) return true;
			}
		}
		return false;
	}

	function isNoisyBatch(records) {
		return records.every(r => isNoisyTarget(r.target));
	}

	const observer = new MutationObserver((records) => {
		if (!isNoisyBatch(records)) {
			window.__flashloopLastRealMutation = Date.now();
		}
	});

	observer.observe(document.body, {
		childList: true,
		subtree: true,
		attributes: true,
		characterData: true,
	});

	window.__flashloopStabilityObserver = observer;
	return true;
}`

const pollScript = `() => window.__flashloopLastRealMutation || 0`

// Wait blocks until the page has been quiescent for cfg.StabilityDuration,
// or cfg.MaxTimeout has elapsed, whichever comes first.
func Wait(page browserdriver.Page, cfg Config) Result {
	if cfg.StabilityDuration == 0 && cfg.MaxTimeout == 0 {
		cfg = DefaultConfig()
	}
	if cfg.pollInterval == 0 {
		cfg.pollInterval = 50 * time.Millisecond
	}

	start := time.Now()

	armed, err := page.Evaluate(installScript, nil)
	if err != nil {
		if isTransientPageError(err) {
			return Result{Achieved: false, Duration: 0}
		}
		// Unexpected driver error: propagate failure without a duration,
		// matching the "other errors propagate" clause — callers treat a
		// zero-value non-achieved Result plus a logged translated error
		// the same way, so we degrade to not-achieved rather than panic.
		return Result{Achieved: false, Duration: 0}
	}
	if ok, isBool := armed.(bool); isBool && !ok {
		// document.body was missing at entry.
		return Result{Achieved: false, Duration: 0}
	}

	for {
		elapsed := time.Since(start)
		if elapsed >= cfg.MaxTimeout {
			return Result{Achieved: false, Duration: elapsed}
		}

		lastMutation, err := page.Evaluate(pollScript, nil)
		if err != nil {
			if isTransientPageError(err) {
				return Result{Achieved: false, Duration: 0}
			}
			return Result{Achieved: false, Duration: elapsed}
		}

		lastMs := toFloat64(lastMutation)
		idleFor := time.Duration(0)
		if lastMs > 0 {
			idleFor = time.Since(epochMillis(lastMs))
		}

		if idleFor >= cfg.StabilityDuration {
			return Result{Achieved: true, Duration: time.Since(start)}
		}

		time.Sleep(cfg.pollInterval)
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func epochMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms))
}

var transientSubstrings = []string{
	"target closed",
	"context destroyed",
	"execution context was destroyed",
	"navigation",
}

func isTransientPageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range transientSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// ErrNoBody is returned by callers that want to distinguish a missing
// document.body from a genuine timeout; Wait itself folds both into
// Result{Achieved:false}, matching spec §4.1's stated behavior, but the
// sentinel is exported for tests and diagnostics.
var ErrNoBody = errors.New("stability: document.body missing at entry")
