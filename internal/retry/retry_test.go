package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("503 service unavailable")

var fastPolicy = Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	err := Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		opCalled++
		return nil
	}, isTransient)

	assert.NoError(t, err)
	assert.Equal(t, 1, opCalled)
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	var opCalled int
	expectedErr := errors.New("403 forbidden")
	err := Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		opCalled++
		return expectedErr
	}, isTransient)

	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 1, opCalled)
}

func TestDo_ExhaustRetries(t *testing.T) {
	var opCalled int
	err := Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		opCalled++
		return errTransient
	}, isTransient)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, fastPolicy.MaxRetries+1, opCalled)
}

func TestDo_TransientFailureResolves(t *testing.T) {
	var opCalled int
	err := Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		opCalled++
		if opCalled < 3 {
			return errTransient
		}
		return nil
	}, isTransient)

	assert.NoError(t, err)
	assert.Equal(t, 3, opCalled)
}

func TestDo_PermanentStopsRetrying(t *testing.T) {
	var opCalled int
	err := Do(context.Background(), fastPolicy, func(ctx context.Context) error {
		opCalled++
		return Permanent(errTransient)
	}, Always)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, opCalled)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := Policy{MaxRetries: 5, BaseDelay: time.Hour}

	var opCalled int
	err := Do(ctx, slow, func(ctx context.Context) error {
		opCalled++
		cancel()
		return errTransient
	}, isTransient)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, opCalled)
}
