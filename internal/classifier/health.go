package classifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthState is the monitor's view of the inference endpoint.
type HealthState string

const (
	HealthUnknown     HealthState = "unknown"
	HealthConnected   HealthState = "connected"
	HealthLoading     HealthState = "loading"
	HealthUnreachable HealthState = "unreachable"
)

// HealthStatus pairs a state with an optional human-readable reason.
type HealthStatus struct {
	Status HealthState `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

const (
	probeTimeout      = 5 * time.Second
	loadingRetryDelay = 5 * time.Second
)

// Probe sends a minimal classification request to check endpoint readiness.
// It never blocks longer than probeTimeout.
func (c *Client) Probe(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := c.post(ctx, "test", []string{"test"})
	switch {
	case err == nil:
		return HealthStatus{Status: HealthConnected}
	case errors.Is(err, ErrNoToken):
		return HealthStatus{Status: HealthUnreachable, Reason: "no API token configured"}
	case errors.Is(err, ErrModelLoading):
		return HealthStatus{Status: HealthLoading, Reason: "model is loading, please wait"}
	case errors.Is(err, context.DeadlineExceeded):
		return HealthStatus{Status: HealthUnreachable, Reason: "endpoint not responding"}
	default:
		return HealthStatus{Status: HealthUnreachable, Reason: err.Error()}
	}
}

// HealthMonitor polls the inference endpoint in the background and keeps the
// last observed status. The reported state is presentation-facing only;
// classification calls never consult it.
type HealthMonitor struct {
	client   *Client
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	status HealthStatus

	cancel context.CancelFunc
	done   chan struct{}
}

// NewHealthMonitor builds a monitor that probes every interval, or every
// loadingRetryDelay while the model reports loading.
func NewHealthMonitor(client *Client, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		client:   client,
		interval: interval,
		logger:   logger,
		status:   HealthStatus{Status: HealthUnknown},
	}
}

// Start launches the polling goroutine. It probes once immediately.
func (m *HealthMonitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Stop cancels polling and waits for the goroutine to exit.
func (m *HealthMonitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

// Current returns the last observed status.
func (m *HealthMonitor) Current() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *HealthMonitor) run(ctx context.Context) {
	defer close(m.done)

	m.probe(ctx)
	for {
		delay := m.interval
		if m.Current().Status == HealthLoading {
			delay = loadingRetryDelay
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			m.probe(ctx)
		}
	}
}

func (m *HealthMonitor) probe(ctx context.Context) {
	next := m.client.Probe(ctx)

	m.mu.Lock()
	previous := m.status
	m.status = next
	m.mu.Unlock()

	if previous.Status != next.Status {
		m.logger.Info("classifier health changed",
			zap.String("from", string(previous.Status)),
			zap.String("to", string(next.Status)),
			zap.String("reason", next.Reason))
	}
}
