package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// instantTimer fires immediately and records every requested wait
type instantTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	timer := &instantTimer{}
	r := New(DefaultPolicy(), nil).WithTimer(timer)

	calls := 0
	err := r.Do(context.Background(), "op", func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(timer.waits) != 0 {
		t.Fatalf("expected no wait, got %v", timer.waits)
	}
}

func TestDo_ExhaustsWithExponentialWaits(t *testing.T) {
	timer := &instantTimer{}
	r := New(Policy{MaxAttempts: 3, BaseDelay: time.Second}, nil).WithTimer(timer)

	var attempts []int
	sentinel := errors.New("boom")
	err := r.Do(context.Background(), "op", func(ctx context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if len(attempts) != 3 || attempts[0] != 0 || attempts[2] != 2 {
		t.Fatalf("unexpected attempts %v", attempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(timer.waits) != len(want) {
		t.Fatalf("expected waits %v, got %v", want, timer.waits)
	}
	for i := range want {
		if timer.waits[i] != want[i] {
			t.Fatalf("wait %d: expected %v, got %v", i, want[i], timer.waits[i])
		}
	}
}

func TestDo_RecoversOnSecondAttempt(t *testing.T) {
	timer := &instantTimer{}
	r := New(DefaultPolicy(), nil).WithTimer(timer)

	calls := 0
	err := r.Do(context.Background(), "op", func(ctx context.Context, attempt int) error {
		calls++
		if attempt == 0 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDo_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := New(DefaultPolicy(), nil).WithTimer(&instantTimer{}).Do(ctx, "op", func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no call, got %d", calls)
	}
}

func TestNew_InvalidPolicyUsesDefaults(t *testing.T) {
	p := New(Policy{}, nil).Policy()
	if p.MaxAttempts != 3 || p.BaseDelay != time.Second {
		t.Fatalf("unexpected policy %+v", p)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{10, 60 * time.Second},
	}
	for _, tt := range tests {
		if got := CalculateBackoff(tt.attempt, time.Second, 60*time.Second); got != tt.want {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}

func TestDo_SingleAttemptDoesNotRetry(t *testing.T) {
	timer := &instantTimer{}
	calls := 0
	err := New(Policy{MaxAttempts: 1, BaseDelay: time.Second}, nil).WithTimer(timer).Do(context.Background(), "op", func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("fail")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 || len(timer.waits) != 0 {
		t.Fatalf("expected a single call without wait, got %d calls, waits %v", calls, timer.waits)
	}
}
