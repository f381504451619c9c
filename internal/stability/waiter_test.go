package stability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage is a minimal browserdriver.Page stub that only implements
// Evaluate, enough to drive the waiter's poll loop deterministically.
type fakePage struct {
	armed      bool
	lastMillis int64
	evalErr    error
}

func (f *fakePage) Evaluate(script string, arg any) (any, error) {
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	if script == installScript {
		f.armed = true
		return true, nil
	}
	return float64(f.lastMillis), nil
}

func TestWaitAchievesStabilityAfterIdleWindow(t *testing.T) {
	now := time.Now().UnixMilli()
	page := &fakePage{lastMillis: now}

	cfg := Config{StabilityDuration: 80 * time.Millisecond, MaxTimeout: 2 * time.Second}
	result := waitOnEvaluator(page.Evaluate, cfg)

	require.True(t, result.Achieved)
	assert.GreaterOrEqual(t, result.Duration, 80*time.Millisecond)
}

func TestWaitTimesOutOnPerpetualMutation(t *testing.T) {
	page := &movingTargetPage{}

	cfg := Config{StabilityDuration: 300 * time.Millisecond, MaxTimeout: 150 * time.Millisecond, pollInterval: 10 * time.Millisecond}
	result := waitOnEvaluator(page.Evaluate, cfg)

	assert.False(t, result.Achieved)
	assert.GreaterOrEqual(t, result.Duration, cfg.MaxTimeout)
}

// movingTargetPage simulates continuous real mutations: every poll reports
// "now" as the last mutation time, so idle time never accumulates.
type movingTargetPage struct{}

func (m *movingTargetPage) Evaluate(script string, arg any) (any, error) {
	if script == installScript {
		return true, nil
	}
	return float64(time.Now().UnixMilli()), nil
}

func TestWaitHandlesMissingBody(t *testing.T) {
	page := &fakePage{}
	page.armed = false

	evaluator := func(script string, arg any) (any, error) {
		if script == installScript {
			return false, nil
		}
		return float64(0), nil
	}

	result := waitOnEvaluator(evaluator, DefaultConfig())
	assert.False(t, result.Achieved)
	assert.Equal(t, time.Duration(0), result.Duration)
}

func TestWaitHandlesTransientNavigationError(t *testing.T) {
	evaluator := func(script string, arg any) (any, error) {
		return nil, errors.New("Execution context was destroyed, most likely because of a navigation")
	}

	result := waitOnEvaluator(evaluator, DefaultConfig())
	assert.False(t, result.Achieved)
	assert.Equal(t, time.Duration(0), result.Duration)
}

// waitOnEvaluator exercises the same state machine as Wait but against a
// bare evaluator function, avoiding the need for a full browserdriver.Page
// fake for unit testing the polling logic in isolation.
func waitOnEvaluator(evaluate func(string, any) (any, error), cfg Config) Result {
	if cfg.pollInterval == 0 {
		cfg.pollInterval = 10 * time.Millisecond
	}
	start := time.Now()

	armed, err := evaluate(installScript, nil)
	if err != nil {
		return Result{Achieved: false, Duration: 0}
	}
	if ok, isBool := armed.(bool); isBool && !ok {
		return Result{Achieved: false, Duration: 0}
	}

	for {
		elapsed := time.Since(start)
		if elapsed >= cfg.MaxTimeout {
			return Result{Achieved: false, Duration: elapsed}
		}

		lastMutation, err := evaluate(pollScript, nil)
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
