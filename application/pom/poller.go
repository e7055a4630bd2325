package pom

import (
	"context"
	"fmt"
	"time"

	"pageprism/domain/entities"

	"github.com/sirupsen/logrus"
)

// Poller checks a predicate a bounded number of times with a fixed pause in
// between. There is no backoff and no jitter.
type Poller struct {
	Interval time.Duration
	Sleep    SleepFunc
	Logger   logrus.FieldLogger
}

// Attempts returns how many checks fit in timeout. A timeout shorter than
// one interval allows none.
func (p Poller) Attempts(timeout time.Duration) int {
	if p.Interval <= 0 || timeout <= 0 {
		return 0
	}
	return int(timeout / p.Interval)
}

// Poll checks pred up to attempts times. It stops at the first check that
// holds, returns the first error pred reports, and otherwise fails with an
// error wrapping entities.ErrTimeout.
func (p Poller) Poll(ctx context.Context, attempts int, what string, pred func() (bool, error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	for i := 1; i <= attempts; i++ {
		logger.Debugf("checking %s %d/%d", what, i, attempts)
		ok, err := pred()
		if err != nil {
			return err
		}
		if ok {
			logger.Debugf("%s!", what)
			return nil
		}
		if i == attempts {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s not reached after %d checks", entities.ErrTimeout, what, attempts)
}
