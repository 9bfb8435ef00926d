package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc is invoked with a deadline-bound context when the service stops.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	component string
	stop      ShutdownFunc
}

// Manager collects stop callbacks from the wiring in main and runs them,
// newest first, once the process is told to terminate.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []hook
}

// New creates a lifecycle manager. The timeout bounds the whole shutdown
// sequence, not each hook individually.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register queues a stop callback. Components registered later stop first,
// so dependents go down before the things they depend on.
func (m *Manager) Register(component string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{component: component, stop: stop})
}

// Shutdown runs every queued callback under the configured deadline. A
// failing hook is logged and skipped; the joined failures come back to the
// caller.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var failed error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		if err := h.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", h.component), zap.Error(err))
			failed = errors.Join(failed, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", h.component))
	}
	return failed
}

// Listen waits for SIGTERM or SIGINT in the background and fires the given
// cancel function once, which unblocks the run loop in main.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
