package scraper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAwaitCondition_SucceedsOnceConditionHolds(t *testing.T) {
	calls := 0
	ok, err := awaitCondition(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("condition eventually held, expected success")
	}
	if calls != 3 {
		t.Errorf("expected 3 polls, got %d", calls)
	}
}

func TestAwaitCondition_TimeoutIsNotAnError(t *testing.T) {
	ok, err := awaitCondition(context.Background(), time.Millisecond, 10*time.Millisecond, func() (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("timeout must be a distinct non-error outcome, got %v", err)
	}
	if ok {
		t.Error("never-true condition reported success")
	}
}

func TestAwaitCondition_PredicateErrorPropagates(t *testing.T) {
	boom := errors.New("page evaluation failed")
	_, err := awaitCondition(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected predicate error, got %v", err)
	}
}

func TestAwaitCondition_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := awaitCondition(ctx, time.Millisecond, time.Second, func() (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
