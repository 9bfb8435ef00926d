package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksNewestFirst(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	m.Register("pool", func(ctx context.Context) error {
		order = append(order, "pool")
		return nil
	})
	m.Register("server", func(ctx context.Context) error {
		order = append(order, "server")
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.Equal(t, []string{"server", "pool"}, order)
}

func TestShutdownJoinsFailuresAndKeepsGoing(t *testing.T) {
	m := New(time.Second, nil)

	boom := errors.New("boom")
	var poolStopped bool
	m.Register("pool", func(ctx context.Context) error {
		poolStopped = true
		return nil
	})
	m.Register("server", func(ctx context.Context) error {
		return boom
	})

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, boom)
	require.True(t, poolStopped)
}

func TestShutdownBoundsHooksByTimeout(t *testing.T) {
	m := New(10*time.Millisecond, nil)

	var sawDeadline bool
	m.Register("slow", func(ctx context.Context) error {
		_, sawDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	require.True(t, sawDeadline)
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)
	require.NoError(t, m.Shutdown(context.Background()))
}
