package browser

import (
	"context"
	"fmt"
	"time"

	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
)

// DefaultWaitInterval matches selenium's explicit-wait polling interval.
const DefaultWaitInterval = 100 * time.Millisecond

// pollCondition checks cond every interval until it holds, fails, ctx is
// done or timeout passes. It always checks at least once.
func pollCondition(ctx context.Context, cond interfaces.Condition, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: condition not met after %s", entities.ErrTimeout, timeout)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
