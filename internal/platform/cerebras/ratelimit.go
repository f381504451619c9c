package cerebras

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter over both requests-per-minute and a
// rolling tokens-per-hour budget.
type RateLimiter struct {
	requestsPerMinute int
	tokensPerHour     int

	requestTokens    int
	requestCapacity  int
	requestMu        sync.Mutex
	requestLastCheck time.Time

	tokenBudget    int
	tokenCapacity  int
	tokenMu        sync.Mutex
	tokenLastCheck time.Time
}

// NewRateLimiter applies the teacher-grounded defaults (60 RPM, 90k
// tokens/hour) when given non-positive values.
func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 90000
	}

	now := time.Now()
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokensPerHour:     tokensPerHour,
		requestTokens:     requestsPerMinute,
		requestCapacity:   requestsPerMinute,
		requestLastCheck:  now,
		tokenBudget:       tokensPerHour,
		tokenCapacity:     tokensPerHour,
		tokenLastCheck:    now,
	}
}

func (rl *RateLimiter) refillRequestTokens() {
	now := time.Now()
	elapsed := now.Sub(rl.requestLastCheck)
	rl.requestTokens += int(elapsed.Minutes() * float64(rl.requestsPerMinute))
	if rl.requestTokens > rl.requestCapacity {
		rl.requestTokens = rl.requestCapacity
	}
	rl.requestLastCheck = now
}

func (rl *RateLimiter) refillTokenBudget() {
	now := time.Now()
	elapsed := now.Sub(rl.tokenLastCheck)
	rl.tokenBudget += int(elapsed.Hours() * float64(rl.tokensPerHour))
	if rl.tokenBudget > rl.tokenCapacity {
		rl.tokenBudget = rl.tokenCapacity
	}
	rl.tokenLastCheck = now
}

// AllowRequest consumes one request token, or returns an error naming the
// wait time until the next one refills.
func (rl *RateLimiter) AllowRequest(ctx context.Context) error {
	rl.requestMu.Lock()
	defer rl.requestMu.Unlock()

	rl.refillRequestTokens()
	if rl.requestTokens <= 0 {
		wait := time.Minute / time.Duration(rl.requestsPerMinute)
		return fmt.Errorf("cerebras: request rate limit exceeded (%d rpm), retry after %v", rl.requestsPerMinute, wait)
	}
	rl.requestTokens--
	return nil
}

// AllowTokens reserves an estimated token count against the hourly budget.
func (rl *RateLimiter) AllowTokens(ctx context.Context, tokens int) error {
	rl.tokenMu.Lock()
	defer rl.tokenMu.Unlock()

	rl.refillTokenBudget()
	if rl.tokenBudget < tokens {
		return fmt.Errorf("cerebras: token budget exceeded (%d tph), need %d, have %d", rl.tokensPerHour, tokens, rl.tokenBudget)
	}
	rl.tokenBudget -= tokens
	return nil
}

// ConsumeTokens reconciles the estimate against the actual usage reported
// by the response, never going negative.
func (rl *RateLimiter) ConsumeTokens(tokens int) {
	rl.tokenMu.Lock()
	defer rl.tokenMu.Unlock()
	rl.tokenBudget -= tokens
	if rl.tokenBudget < 0 {
		rl.tokenBudget = 0
	}
}
