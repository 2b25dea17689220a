package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/observability"
)

const (
	queueSize   = 64
	workerCount = 2
)

// Dispatcher posts full ticket payloads to the configured automation webhook.
// Deliveries are best-effort and fire-and-forget: all failures are logged and
// swallowed, and callers are never blocked by a slow or dead endpoint.
type Dispatcher struct {
	url    string
	client *http.Client
	logger *zap.Logger

	queue  chan *domain.Ticket
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher starts the delivery workers. With no URL configured the
// dispatcher stays inert and Notify becomes a no-op.
func NewDispatcher(cfg config.WebhookConfig, logger *zap.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
		queue:  make(chan *domain.Ticket, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify enqueues a delivery for the given ticket. It never blocks; when the
// queue is full the delivery is dropped with a warning.
func (d *Dispatcher) Notify(ticket *domain.Ticket) {
	if d.url == "" {
		d.logger.Debug("webhook not configured, skipping delivery", zap.String("ticket_id", ticket.ID))
		return
	}

	select {
	case d.queue <- ticket:
	default:
		d.logger.Warn("webhook queue full, dropping delivery", zap.String("ticket_id", ticket.ID))
		observability.RecordWebhookDelivery("failure")
	}
}

// Close stops the workers. Queued deliveries that have not started are dropped.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.cancel()
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case ticket := <-d.queue:
			d.deliver(ticket)
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) deliver(ticket *domain.Ticket) {
	payload, err := json.Marshal(ticket)
	if err != nil {
		d.logger.Error("encode webhook payload", zap.String("ticket_id", ticket.ID), zap.Error(err))
		observability.RecordWebhookDelivery("failure")
		return
	}

	req, err := http.NewRequestWithContext(d.ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		d.logger.Error("build webhook request", zap.String("ticket_id", ticket.ID), zap.Error(err))
		observability.RecordWebhookDelivery("failure")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("webhook delivery failed",
			zap.String("ticket_id", ticket.ID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		observability.RecordWebhookDelivery("failure")
		return
	}
	defer resp.Body.Close()

	// body is logged for operators, never interpreted
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		d.logger.Info("webhook delivered",
			zap.String("ticket_id", ticket.ID),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))
		observability.RecordWebhookDelivery("success")
		return
	}

	d.logger.Warn("webhook delivery rejected",
		zap.String("ticket_id", ticket.ID),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body),
		zap.Duration("duration", time.Since(start)))
	observability.RecordWebhookDelivery("failure")
}
