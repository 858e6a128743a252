package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository/mocks"
	"github.com/medictrans/oncall-api/pkg/logger"
	"github.com/medictrans/oncall-api/pkg/messaging"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

type fakeSender struct {
	mu       sync.Mutex
	failures map[string]int
	sent     []string
}

func (s *fakeSender) Send(_ context.Context, mail *model.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[mail.ID] > 0 {
		s.failures[mail.ID]--
		return errors.New("smtp: 451 try again later")
	}
	s.sent = append(s.sent, mail.ID)
	return nil
}

type fakeBroker struct {
	ch chan []byte
}

func (b *fakeBroker) Publish(context.Context, string, interface{}) error { return nil }

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return b.ch, nil
}

func (b *fakeBroker) Close() error { return nil }

func newRelay(t *testing.T, outbox *mocks.MailOutbox, sender *fakeSender, broker messaging.Broker) (*MailRelay, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	cfg := MailRelayConfig{BatchSize: 10, PollInterval: time.Hour, MaxRetries: 3, RetryDelay: time.Millisecond}

	relay, err := NewMailRelay(outbox, sender, broker, cfg, log, m)
	require.NoError(t, err)
	return relay, m
}

func TestProcessBatchDelivers(t *testing.T) {
	outbox := &mocks.MailOutbox{}
	sender := &fakeSender{failures: map[string]int{"m2": 1}}
	outbox.On("ListPending", mock.Anything, 10).Return([]*model.Email{{ID: "m1"}, {ID: "m2"}}, nil)
	outbox.On("MarkDelivered", mock.Anything, "m1", 1).Return(nil)
	outbox.On("MarkDelivered", mock.Anything, "m2", 2).Return(nil)

	relay, m := newRelay(t, outbox, sender, nil)
	require.NoError(t, relay.ProcessBatch(context.Background()))

	assert.Equal(t, []string{"m1", "m2"}, sender.sent)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.MailsProcessed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MailRetries))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.MailQueueSize))
	outbox.AssertExpectations(t)
}

func TestProcessBatchMarksExhaustedMailFailed(t *testing.T) {
	outbox := &mocks.MailOutbox{}
	sender := &fakeSender{failures: map[string]int{"m1": 5}}
	outbox.On("ListPending", mock.Anything, 10).Return([]*model.Email{{ID: "m1"}, {ID: "m2"}}, nil)
	outbox.On("MarkFailed", mock.Anything, "m1", 3, mock.Anything).Return(nil)
	outbox.On("MarkDelivered", mock.Anything, "m2", 1).Return(nil)

	relay, m := newRelay(t, outbox, sender, nil)
	require.NoError(t, relay.ProcessBatch(context.Background()))

	assert.Equal(t, []string{"m2"}, sender.sent)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MailsFailed))
	outbox.AssertExpectations(t)
}

func TestProcessBatchListError(t *testing.T) {
	outbox := &mocks.MailOutbox{}
	outbox.On("ListPending", mock.Anything, 10).Return(nil, errors.New("unavailable"))

	relay, _ := newRelay(t, outbox, &fakeSender{}, nil)

	assert.Error(t, relay.ProcessBatch(context.Background()))
}

func TestStartWakesOnNotification(t *testing.T) {
	outbox := &mocks.MailOutbox{}
	sender := &fakeSender{}
	broker := &fakeBroker{ch: make(chan []byte, 1)}

	started := make(chan struct{})
	delivered := make(chan struct{})
	outbox.On("ListPending", mock.Anything, 10).Run(func(mock.Arguments) {
		close(started)
	}).Return([]*model.Email{}, nil).Once()
	outbox.On("ListPending", mock.Anything, 10).Return([]*model.Email{{ID: "m9"}}, nil).Once()
	outbox.On("ListPending", mock.Anything, 10).Return([]*model.Email{}, nil)
	outbox.On("MarkDelivered", mock.Anything, "m9", 1).Run(func(mock.Arguments) {
		close(delivered)
	}).Return(nil)

	relay, _ := newRelay(t, outbox, sender, broker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		relay.Start(ctx)
		close(done)
	}()

	<-started
	broker.ch <- []byte(`{"type":"mail.queued"}`)

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not deliver after notification")
	}
	cancel()
	<-done
}

func TestNewMailRelayValidatesConfig(t *testing.T) {
	_, err := NewMailRelay(&mocks.MailOutbox{}, &fakeSender{}, nil, MailRelayConfig{}, logger.NewLogger(nil), nil)
	assert.Error(t, err)
}
