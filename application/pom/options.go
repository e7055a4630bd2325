package pom

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout is used by field waits called with a zero timeout.
	DefaultTimeout = 10 * time.Second

	// PollInterval separates the checks of the page-level waits.
	PollInterval = time.Second
)

// SleepFunc pauses between polling checks. It returns early with ctx.Err()
// when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures pages and the sections and frames reached from them.
type Option func(*options)

type options struct {
	logger         logrus.FieldLogger
	defaultTimeout time.Duration
	sleep          SleepFunc
}

// WithLogger sets the sink operations are reported to. Defaults to the
// logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaultTimeout replaces DefaultTimeout for field waits.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTimeout = d
		}
	}
}

// WithSleep replaces the pause used by page-level polling.
func WithSleep(fn SleepFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:         logrus.StandardLogger(),
		defaultTimeout: DefaultTimeout,
		sleep:          SleepContext,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) timeout(d time.Duration) time.Duration {
	if d <= 0 {
		return o.defaultTimeout
	}
	return d
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
