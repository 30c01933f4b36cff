package resilience

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed minimum interval between consecutive calls.
// The sports-data provider meters requests, so every outbound call
// passes through Wait before it is issued.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the configured interval has elapsed since the
// previous call, or until the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.now()
	var delay time.Duration
	if !p.last.IsZero() {
		if elapsed := now.Sub(p.last); elapsed < p.interval {
			delay = p.interval - elapsed
		}
	}
	p.last = now.Add(delay)
	p.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
