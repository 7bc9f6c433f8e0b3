package pipeline

import (
	"context"
	"time"
)

// Poll calls cond every interval until it reports true, timeout elapses or
// ctx is done. It returns true when cond was satisfied. A timeout is not an
// error; cond errors and ctx cancellation are.
func Poll(ctx context.Context, interval, timeout time.Duration, cond func() (bool, error)) (bool, error) {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
}
