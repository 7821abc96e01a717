package scraper

import (
	"context"
	"time"
)

// awaitCondition polls predicate on a fixed interval until it reports true
// or the timeout elapses. The three outcomes are distinct: (true, nil) means
// the condition held, (false, nil) means the wait was exhausted, and a
// non-nil error means the context ended or the predicate itself failed.
//
// The readiness gate, the scroll-stall detector, and the image-load wait all
// run on top of this.
func awaitCondition(ctx context.Context, interval, timeout time.Duration, predicate func() (bool, error)) (bool, error) {
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := predicate()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
}

// sleepCtx pauses for d, waking early if the context ends.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
