package client

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBreakerBasicFlow(t *testing.T) {
	b := NewBreaker(&BreakerConfig{MaxFailures: 3, Timeout: 100 * time.Millisecond, HalfOpenMaxCalls: 2})

	if b.State() != BreakerClosed {
		t.Errorf("Expected initial state to be Closed, got %v", b.State())
	}

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if b.State() != BreakerClosed {
		t.Errorf("Expected state to remain Closed after success, got %v", b.State())
	}
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(&BreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenMaxCalls: 2})

	b.Execute(func() error { return fmt.Errorf("connection refused") })
	if b.State() != BreakerClosed {
		t.Errorf("Expected state to be Closed after first failure, got %v", b.State())
	}

	b.Execute(func() error { return fmt.Errorf("connection refused") })
	if b.State() != BreakerOpen {
		t.Errorf("Expected state to be Open after reaching failure threshold, got %v", b.State())
	}

	err := b.Execute(func() error {
		t.Error("Call should not run while the breaker is open")
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	b := NewBreaker(&BreakerConfig{MaxFailures: 1, Timeout: 50 * time.Millisecond, HalfOpenMaxCalls: 2})

	b.Execute(func() error { return fmt.Errorf("failure") })
	time.Sleep(60 * time.Millisecond)

	executed := false
	if err := b.Execute(func() error { executed = true; return nil }); err != nil {
		t.Errorf("Expected probe call to succeed, got %v", err)
	}
	if !executed {
		t.Error("Expected probe call to run after timeout")
	}
	if b.State() != BreakerHalfOpen {
		t.Errorf("Expected HalfOpen after one probe, got %v", b.State())
	}

	b.Execute(func() error { return nil })
	if b.State() != BreakerClosed {
		t.Errorf("Expected Closed after enough probes, got %v", b.State())
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(&BreakerConfig{MaxFailures: 1, Timeout: 50 * time.Millisecond, HalfOpenMaxCalls: 2})

	b.Execute(func() error { return fmt.Errorf("failure") })
	time.Sleep(60 * time.Millisecond)
	b.Execute(func() error { return fmt.Errorf("still failing") })

	if b.State() != BreakerOpen {
		t.Errorf("Expected Open after failed probe, got %v", b.State())
	}
}

func TestBreakerConcurrency(t *testing.T) {
	b := NewBreaker(&BreakerConfig{MaxFailures: 5, Timeout: 100 * time.Millisecond, HalfOpenMaxCalls: 3})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Execute(func() error {
					if (id+j)%3 == 0 {
						return fmt.Errorf("failure %d-%d", id, j)
					}
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	err := b.Execute(func() error { return nil })
	if err != nil && err != ErrCircuitOpen {
		t.Errorf("Unexpected error after concurrent operations: %v", err)
	}
	if b.Stats()["state"] == "" {
		t.Error("Expected stats to report a state")
	}
}
