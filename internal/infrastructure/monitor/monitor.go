package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Check is a named reachability probe for one external collaborator.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Monitor periodically probes the external collaborators (identity provider,
// record store) and caches the last observed status for the health endpoint.
type Monitor struct {
	checks   []Check
	interval time.Duration

	status Status
	mu     sync.RWMutex
	stopCh chan struct{}
	logger *zap.Logger
}

func New(checks []Check, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) Healthy() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	services := make(map[string]bool, len(m.checks))
	for _, check := range m.checks {
		services[check.Name] = m.run(check)
	}
	status := Status{
		Services:  services,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) run(check Check) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := check.Probe(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("service", check.Name), zap.Error(err))
		return false
	}
	return true
}
