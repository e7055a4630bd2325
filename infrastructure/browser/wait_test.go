package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"pageprism/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestPollConditionHolds(t *testing.T) {
	calls := 0
	err := pollCondition(context.Background(), func() (bool, error) {
		calls++
		return calls == 3, nil
	}, time.Second, time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPollConditionChecksOnceWithZeroTimeout(t *testing.T) {
	calls := 0
	err := pollCondition(context.Background(), func() (bool, error) {
		calls++
		return false, nil
	}, 0, time.Millisecond)

	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.Equal(t, 1, calls)
}

func TestPollConditionStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := pollCondition(context.Background(), func() (bool, error) {
		calls++
		return false, boom
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPollConditionHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pollCondition(ctx, func() (bool, error) {
		t.Fatal("condition must not run after cancel")
		return false, nil
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
}
