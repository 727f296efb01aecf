package core

import "fmt"

// TurnLimiter enforces the hard cap on model turns inside an agentic
// conversation. Each outbound model call consumes one turn; exceeding the
// cap is fatal for the request.
//
// A limiter is request-scoped and used by a single goroutine, matching the
// synchronous per-request execution model, so it carries no lock.
type TurnLimiter struct {
	max   int
	count int
}

// NewTurnLimiter creates a limiter allowing max turns. max <= 0 means
// unlimited, which is only sensible in tests.
func NewTurnLimiter(max int) *TurnLimiter {
	return &TurnLimiter{max: max}
}

// Take consumes one turn and returns an error once the cap is exceeded.
func (tl *TurnLimiter) Take() error {
	tl.count++
	if tl.max > 0 && tl.count > tl.max {
		return fmt.Errorf("%w (max %d)", ErrLoopExceeded, tl.max)
	}
	return nil
}

// Count returns the number of turns consumed so far.
func (tl *TurnLimiter) Count() int { return tl.count }

// Remaining returns how many turns are left, or -1 when unlimited.
func (tl *TurnLimiter) Remaining() int {
	if tl.max <= 0 {
		return -1
	}
	return tl.max - tl.count
}
