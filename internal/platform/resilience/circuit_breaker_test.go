package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow: %v", err)
	}

	b.RecordFailure()
	b.RecordFailure()

	if err := b.Allow(); err == nil {
		t.Fatal("breaker should reject after threshold failures")
	}
	if b.State() != CircuitStateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}
}

func TestCircuitBreakerRecoversViaHalfOpen(t *testing.T) {
	t.Parallel()

	current := time.Unix(1700000000, 0)
	b := NewCircuitBreaker(1, 10*time.Second, 1)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("open breaker should reject")
	}

	current = current.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open breaker should allow a probe: %v", err)
	}
	b.RecordSuccess()

	if b.State() != CircuitStateClosed {
		t.Fatalf("state = %s, want closed after probe success", b.State())
	}
}
