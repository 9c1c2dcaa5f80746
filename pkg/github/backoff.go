package github

import "time"

// defaultSchedule is the fixed ladder of waits between retry attempts.
// The budget is deliberately finite: once the ladder is walked, the
// request gives up rather than retrying forever.
var defaultSchedule = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
	16 * time.Second,
	32 * time.Second,
	64 * time.Second,
}

// Backoff yields the wait before each retry attempt. It is a pure value:
// no clocks, no I/O, fully deterministic given its inputs.
type Backoff struct {
	schedule []time.Duration
}

// NewBackoff returns the standard 1..64 second exponential ladder.
func NewBackoff() Backoff {
	return Backoff{schedule: defaultSchedule}
}

// NewBackoffSchedule returns a Backoff with a custom ladder. The ladder
// length is the retry budget.
func NewBackoffSchedule(steps ...time.Duration) Backoff {
	return Backoff{schedule: steps}
}

// Delay returns the wait before the zero-based retry attempt and whether
// the budget still allows that attempt. A positive server hint
// (Retry-After) replaces the scheduled wait for this attempt only; it does
// not advance the position in the ladder.
func (b Backoff) Delay(attempt int, hint time.Duration) (time.Duration, bool) {
	if attempt < 0 || attempt >= len(b.schedule) {
		return 0, false
	}
	if hint > 0 {
		return hint, true
	}
	return b.schedule[attempt], true
}

// Budget returns the number of retry attempts the ladder allows.
func (b Backoff) Budget() int { return len(b.schedule) }
