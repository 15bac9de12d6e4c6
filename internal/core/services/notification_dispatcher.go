package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	DefaultNotificationTimeout   = 5 * time.Second
	DefaultNotificationWorkers   = 4
	DefaultNotificationQueueSize = 256

	TransferReceivedTitle = "Transfer received"
	TransferReceivedType  = "transfer_received"
)

// DispatcherConfig sizes the notification worker pool.
type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

type dispatchJob struct {
	name   string
	logger *slog.Logger
	run    func(ctx context.Context) error
}

// notificationDispatcher runs post-commit side effects on a fixed pool of workers.
// Enqueueing never blocks: when the queue is full the job is dropped and logged.
type notificationDispatcher struct {
	BaseService
	transport ports.PushTransport
	publisher ports.EventPublisher
	timeout   time.Duration

	jobs    chan dispatchJob
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewNotificationDispatcher starts the workers. transport and publisher may be nil, in which
// case the matching jobs are skipped.
func NewNotificationDispatcher(transport ports.PushTransport, publisher ports.EventPublisher, cfg DispatcherConfig) portssvc.NotificationDispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultNotificationWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultNotificationQueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNotificationTimeout
	}

	d := &notificationDispatcher{
		transport: transport,
		publisher: publisher,
		timeout:   cfg.Timeout,
		jobs:      make(chan dispatchJob, cfg.QueueSize),
	}
	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

var _ portssvc.NotificationDispatcher = (*notificationDispatcher)(nil)

// BuildTransferReceivedMessage renders the push payload sent to the receiver of a transfer.
func BuildTransferReceivedMessage(channel string, amount decimal.Decimal, senderAlias string) domain.PushMessage {
	formatted := utils.FormatMoney(amount)
	return domain.PushMessage{
		To:    channel,
		Title: TransferReceivedTitle,
		Body:  fmt.Sprintf("You received $%s from @%s", formatted, senderAlias),
		Data: map[string]string{
			"type":   TransferReceivedType,
			"amount": formatted,
			"sender": senderAlias,
		},
	}
}

func (d *notificationDispatcher) NotifyTransferReceived(ctx context.Context, receiver domain.Account, amount decimal.Decimal, senderAlias string) {
	if !receiver.HasNotificationChannel() {
		d.LogDebug(ctx, "Receiver has no notification channel, skipping push", slog.String("account_id", receiver.AccountID))
		return
	}
	if d.transport == nil {
		return
	}

	msg := BuildTransferReceivedMessage(receiver.NotificationChannel, amount, senderAlias)
	fingerprint := utils.Fingerprint(receiver.NotificationChannel)
	d.enqueue(ctx, "push.transfer_received", func(ctx context.Context) error {
		if err := d.transport.Send(ctx, msg); err != nil {
			return fmt.Errorf("push to channel %s: %w", fingerprint, err)
		}
		return nil
	})
}

func (d *notificationDispatcher) PublishEvent(ctx context.Context, event domain.WalletEvent) {
	if d.publisher == nil {
		return
	}
	d.enqueue(ctx, "event."+string(event.Type), func(ctx context.Context) error {
		return d.publisher.Publish(ctx, event)
	})
}

func (d *notificationDispatcher) enqueue(ctx context.Context, name string, run func(ctx context.Context) error) {
	job := dispatchJob{name: name, logger: d.GetLogger(ctx), run: run}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		job.logger.Warn("Dispatcher closed, dropping job", slog.String("job", name))
		return
	}
	select {
	case d.jobs <- job:
	default:
		total := d.dropped.Add(1)
		job.logger.Warn("Notification queue full, dropping job", slog.String("job", name), slog.Int64("dropped_total", total))
	}
}

func (d *notificationDispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.runJob(job)
	}
}

// runJob detaches from the request context; only the captured logger carries over.
func (d *notificationDispatcher) runJob(job dispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	ctx = middleware.WithLogger(ctx, job.logger)

	defer func() {
		if r := recover(); r != nil {
			job.logger.Error("Notification job panicked", slog.String("job", job.name), slog.Any("panic", r))
		}
	}()

	if err := job.run(ctx); err != nil {
		job.logger.Warn("Notification job failed", slog.String("job", job.name), slog.String("error", err.Error()))
		return
	}
	job.logger.Debug("Notification job delivered", slog.String("job", job.name))
}

// Close stops intake, lets the workers drain the queue and closes the publisher.
// It returns ctx.Err() if the queue is not drained in time.
func (d *notificationDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("notification queue not drained: %w", ctx.Err())
	}

	if d.publisher != nil {
		if cerr := d.publisher.Close(); cerr != nil {
			d.LogError(ctx, cerr, "Failed to close event publisher")
		}
	}
	return err
}
