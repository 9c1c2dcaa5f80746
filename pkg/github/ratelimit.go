package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Header names GitHub uses to publish rate-limit state.
const (
	headerRateRemaining = "X-Ratelimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerRetryAfter    = "Retry-After"
)

// RateGate tracks the API quota cooldown for the whole process. Every
// worker shares one gate, so independently observed 403s collapse into a
// single deadline instead of each goroutine sleeping past its own. The
// mutex is held across the wait to serialize update-read-sleep.
//
// Deadlines are absolute wall-clock times taken from X-RateLimit-Reset,
// not relative offsets, so time spent deciding to retry never drifts the
// cooldown.
type RateGate struct {
	logger  *log.Logger
	metrics *Metrics
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error

	mu       sync.Mutex
	deadline time.Time
}

// NewRateGate creates a gate that logs cooldowns through logger.
func NewRateGate(logger *log.Logger) *RateGate {
	return &RateGate{
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Observe reports whether resp is a quota-denied response: status 403
// carrying a remaining-quota header. When the remaining quota is zero it
// blocks until the published reset time before returning; a 403 with quota
// left is a permission problem, not a rate limit, and triggers no cooldown.
func (g *RateGate) Observe(ctx context.Context, resp *http.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		return false
	}
	remaining := resp.Header.Get(headerRateRemaining)
	if remaining == "" {
		return false
	}
	n, err := strconv.Atoi(remaining)
	if err != nil || n > 0 {
		return true
	}

	reset, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64)
	if err != nil {
		return true
	}
	g.waitUntil(ctx, time.Unix(reset, 0))
	return true
}

// waitUntil blocks until the shared deadline has passed. A later deadline
// extends the shared one; an earlier or already-passed deadline waits only
// as long as the current one demands.
func (g *RateGate) waitUntil(ctx context.Context, deadline time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if deadline.After(g.deadline) {
		g.deadline = deadline
	}
	wait := g.deadline.Sub(g.now())
	if wait <= 0 {
		return
	}

	if g.logger != nil {
		g.logger.Warn("API quota exhausted, cooling down",
			"wait", wait.Round(time.Second),
			"until", g.deadline.Format(time.RFC3339))
	}
	g.metrics.IncRateLimitWaits()
	_ = g.sleep(ctx, wait)
}

// Deadline returns the currently scheduled cooldown deadline, zero if none.
func (g *RateGate) Deadline() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deadline
}

// sleepContext sleeps for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
