// Package docstore implements the repositories on Cloud Firestore.
package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

// Collection names
const (
	UsersCollection     = "users"
	RequestsCollection  = "requests"
	MessagesCollection  = "messages"
	ServicesCollection  = "services"
	QuestionsCollection = "questions"
	MailsCollection     = "mails"
)

// DB bundles the Firestore client with instrumentation. It is shared by all
// repositories of this package.
type DB struct {
	client  *firestore.Client
	metrics *metrics.Metrics
}

// NewDB wraps client. m may be nil.
func NewDB(client *firestore.Client, m *metrics.Metrics) *DB {
	return &DB{client: client, metrics: m}
}

func (db *DB) Client() *firestore.Client {
	return db.client
}

// Ping reads at most one catalog document to confirm the store answers.
func (db *DB) Ping(ctx context.Context) error {
	iter := db.client.Collection(ServicesCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.GetAll()
	return err
}

func (db *DB) Close() error {
	return db.client.Close()
}

func (db *DB) observe(op string, start time.Time, err error) {
	if db.metrics == nil {
		return
	}
	db.metrics.StoreOperations.WithLabelValues(op, metrics.Status(err)).Inc()
	db.metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// fail logs a failed operation and wraps err for the caller. Missing
// documents become a not-found AppError for resource.
func fail(op, resource string, err error) error {
	if status.Code(err) == codes.NotFound {
		err = errors.NotFound(resource, err)
	}
	log.Error().Err(err).Str("operation", op).Msg("document store operation failed")
	return fmt.Errorf("failed to %s: %w", op, err)
}

// update applies fields to the existing document at ref, leaving other
// fields untouched. Keys are dot-separated field paths. A missing document
// fails with codes.NotFound. An empty field set is a no-op.
func update(ctx context.Context, ref *firestore.DocumentRef, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := ref.Update(ctx, updates)
	return err
}

// Timestamp normalises a stored time to the canonical UTC microsecond form.
// Applying it twice yields the same value.
func Timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}
