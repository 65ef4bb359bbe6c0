package browser

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod/lib/utils"
)

var ErrWaitTimeout = errors.New("timed out waiting for condition")

const (
	pollInitial = 100 * time.Millisecond
	pollMax     = time.Second
)

// WaitUntil polls cond until it reports true, returns an error, or timeout elapses.
// Cancellation of the parent ctx is returned as-is; expiry of timeout is ErrWaitTimeout.
func WaitUntil(ctx context.Context, timeout time.Duration, cond func() (bool, error)) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := utils.Retry(waitCtx, utils.BackoffSleeper(pollInitial, pollMax, nil), cond)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrWaitTimeout
	}
	return err
}

// Pause sleeps for d unless ctx is cancelled first.
func Pause(ctx context.Context, d time.Duration) error {
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
