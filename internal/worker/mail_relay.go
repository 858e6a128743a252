package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medictrans/oncall-api/internal/email"
	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/pkg/logger"
	"github.com/medictrans/oncall-api/pkg/messaging"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

type MailRelayConfig struct {
	BatchSize    int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `envconfig:"RETRY_DELAY" default:"5s"`
}

func (c MailRelayConfig) validate() error {
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be greater than 0")
	case c.PollInterval <= 0:
		return fmt.Errorf("poll interval must be greater than 0")
	case c.MaxRetries <= 0:
		return fmt.Errorf("max retries must be greater than 0")
	case c.RetryDelay < 0:
		return fmt.Errorf("retry delay must not be negative")
	}
	return nil
}

// MailRelay drains the mails collection into SMTP. It polls on an interval
// and, when a broker is given, also wakes up on mail-queued notifications.
type MailRelay struct {
	outbox  repository.MailOutbox
	sender  email.Sender
	broker  messaging.Broker
	config  MailRelayConfig
	logger  *logger.Logger
	metrics *metrics.Metrics

	// one batch at a time
	mu   sync.Mutex
	wake chan struct{}
}

// NewMailRelay builds a relay. broker may be nil.
func NewMailRelay(
	outbox repository.MailOutbox,
	sender email.Sender,
	broker messaging.Broker,
	config MailRelayConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*MailRelay, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &MailRelay{
		outbox:  outbox,
		sender:  sender,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
		wake:    make(chan struct{}, 1),
	}, nil
}

// Start blocks until ctx is done.
func (r *MailRelay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	if r.broker != nil {
		err := messaging.Consume(ctx, r.broker, messaging.ChannelMailQueued, r.logger.Zerolog(), func([]byte) error {
			r.Notify()
			return nil
		})
		if err != nil {
			r.logger.Error(err, "failed to subscribe to mail notifications, polling only")
		}
	}

	r.logger.Info("mail relay started")
	r.Notify()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("mail relay shutting down")
			return
		case <-ticker.C:
		case <-r.wake:
		}
		if err := r.ProcessBatch(ctx); err != nil {
			r.logger.Error(err, "failed to process mails")
		}
	}
}

// Notify schedules a batch without blocking. Notifications that arrive while
// one is already pending are coalesced.
func (r *MailRelay) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// ProcessBatch delivers up to BatchSize pending mails, oldest first. A mail
// that fails is marked and does not stop the batch.
func (r *MailRelay) ProcessBatch(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mails, err := r.outbox.ListPending(ctx, r.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending mails: %w", err)
	}
	r.metrics.MailQueueSize.Set(float64(len(mails)))

	for _, mail := range mails {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.deliver(ctx, mail); err != nil {
			r.logger.Error(err, "failed to deliver mail", "mail_id", mail.ID)
		}
	}
	return nil
}

func (r *MailRelay) deliver(ctx context.Context, mail *model.Email) error {
	attempts, err := r.send(ctx, mail)
	if err != nil {
		r.metrics.MailsFailed.Inc()
		if markErr := r.outbox.MarkFailed(ctx, mail.ID, attempts, err); markErr != nil {
			r.logger.Error(markErr, "failed to mark mail failed", "mail_id", mail.ID)
		}
		return err
	}

	r.metrics.MailsProcessed.Inc()
	if err := r.outbox.MarkDelivered(ctx, mail.ID, attempts); err != nil {
		return fmt.Errorf("failed to mark mail delivered: %w", err)
	}
	return nil
}

// send tries up to MaxRetries times with a fixed delay and reports how many
// attempts were made.
func (r *MailRelay) send(ctx context.Context, mail *model.Email) (int, error) {
	var err error
	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 1 {
			r.metrics.MailRetries.Inc()
			select {
			case <-ctx.Done():
				return attempt - 1, ctx.Err()
			case <-time.After(r.config.RetryDelay):
			}
		}

		timer := prometheus.NewTimer(r.metrics.MailSendLatency)
		err = r.sender.Send(ctx, mail)
		timer.ObserveDuration()
		if err == nil {
			return attempt, nil
		}
		r.logger.Warn("mail delivery attempt failed", "mail_id", mail.ID, "attempt", attempt, "error", err.Error())
	}
	return r.config.MaxRetries, err
}
