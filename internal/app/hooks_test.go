package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	h := NewHooks()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		h.Register(StageActivate, name, func(ctx context.Context) error {
			calls = append(calls, name)
			return nil
		})
	}
	h.Register(StageShutdown, "other", func(ctx context.Context) error {
		calls = append(calls, "other")
		return nil
	})

	require.NoError(t, h.Run(context.Background(), StageActivate))
	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Equal(t, []string{"first", "second", "third"}, h.Names(StageActivate))
}

func TestHooksStopAtFirstError(t *testing.T) {
	h := NewHooks()
	boom := errors.New("boom")
	var calls []string
	h.Register(StageRegisterSchema, "ok", func(ctx context.Context) error {
		calls = append(calls, "ok")
		return nil
	})
	h.Register(StageRegisterSchema, "fails", func(ctx context.Context) error {
		calls = append(calls, "fails")
		return boom
	})
	h.Register(StageRegisterSchema, "skipped", func(ctx context.Context) error {
		calls = append(calls, "skipped")
		return nil
	})

	err := h.Run(context.Background(), StageRegisterSchema)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"fails"`)
	assert.Equal(t, []string{"ok", "fails"}, calls)
}

func TestHooksEmptyStage(t *testing.T) {
	assert.NoError(t, NewHooks().Run(context.Background(), StageShutdown))
}

func TestHooksCancelledContext(t *testing.T) {
	h := NewHooks()
	called := false
	h.Register(StageActivate, "never", func(ctx context.Context) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Run(ctx, StageActivate), context.Canceled)
	assert.False(t, called)
}

func TestHooksRunAllContinuesAfterErrors(t *testing.T) {
	h := NewHooks()
	redisErr := errors.New("redis close")
	var calls []string
	h.Register(StageShutdown, "redis", func(ctx context.Context) error {
		calls = append(calls, "redis")
		return redisErr
	})
	h.Register(StageShutdown, "mongo", func(ctx context.Context) error {
		calls = append(calls, "mongo")
		return nil
	})

	err := h.RunAll(context.Background(), StageShutdown)
	require.ErrorIs(t, err, redisErr)
	assert.Equal(t, []string{"redis", "mongo"}, calls)
	assert.NoError(t, NewHooks().RunAll(context.Background(), StageShutdown))
}
