// Package mocks holds testify mocks of the repository interfaces and the
// event emitter for service and handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/internal/service/event"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, id, email string) (*model.User, error) {
	args := m.Called(ctx, id, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, id string, patch *model.UserPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

type RequestRepository struct{ mock.Mock }

func (m *RequestRepository) Create(ctx context.Context, request *model.Request) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *RequestRepository) Get(ctx context.Context, id string) (*model.Request, error) {
	args := m.Called(ctx, id)
	request, _ := args.Get(0).(*model.Request)
	return request, args.Error(1)
}

func (m *RequestRepository) List(ctx context.Context) ([]*model.Request, error) {
	args := m.Called(ctx)
	requests, _ := args.Get(0).([]*model.Request)
	return requests, args.Error(1)
}

func (m *RequestRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Request, error) {
	args := m.Called(ctx, patientID)
	requests, _ := args.Get(0).([]*model.Request)
	return requests, args.Error(1)
}

func (m *RequestRepository) Update(ctx context.Context, id string, patch *model.RequestPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *RequestRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MessageRepository struct{ mock.Mock }

func (m *MessageRepository) Create(ctx context.Context, message *model.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *MessageRepository) ListByRequest(ctx context.Context, requestID string) ([]*model.Message, error) {
	args := m.Called(ctx, requestID)
	messages, _ := args.Get(0).([]*model.Message)
	return messages, args.Error(1)
}

type ServiceRepository struct{ mock.Mock }

func (m *ServiceRepository) Create(ctx context.Context, service *model.Service) (string, error) {
	args := m.Called(ctx, service)
	return args.String(0), args.Error(1)
}

func (m *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]*model.Service)
	return services, args.Error(1)
}

func (m *ServiceRepository) Update(ctx context.Context, id string, patch *model.ServicePatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *ServiceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type QuestionRepository struct{ mock.Mock }

func (m *QuestionRepository) Create(ctx context.Context, question *model.Question) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func (m *QuestionRepository) List(ctx context.Context) ([]*model.Question, error) {
	args := m.Called(ctx)
	questions, _ := args.Get(0).([]*model.Question)
	return questions, args.Error(1)
}

type EmailRepository struct{ mock.Mock }

func (m *EmailRepository) Create(ctx context.Context, email *model.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type MailOutbox struct{ mock.Mock }

func (m *MailOutbox) ListPending(ctx context.Context, limit int) ([]*model.Email, error) {
	args := m.Called(ctx, limit)
	mails, _ := args.Get(0).([]*model.Email)
	return mails, args.Error(1)
}

func (m *MailOutbox) MarkDelivered(ctx context.Context, id string, attempts int) error {
	return m.Called(ctx, id, attempts).Error(0)
}

func (m *MailOutbox) MarkFailed(ctx context.Context, id string, attempts int, cause error) error {
	return m.Called(ctx, id, attempts, cause).Error(0)
}

// Emitter records emitted events without expectations.
type Emitter struct {
	Events []event.Type
}

func (e *Emitter) Emit(_ context.Context, eventType event.Type, _ interface{}) {
	e.Events = append(e.Events, eventType)
}

// Mailer records queued mails.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) Queue(ctx context.Context, mail *model.Email) error {
	return m.Called(ctx, mail).Error(0)
}

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.RequestRepository  = (*RequestRepository)(nil)
	_ repository.MessageRepository  = (*MessageRepository)(nil)
	_ repository.ServiceRepository  = (*ServiceRepository)(nil)
	_ repository.QuestionRepository = (*QuestionRepository)(nil)
	_ repository.EmailRepository    = (*EmailRepository)(nil)
	_ repository.MailOutbox         = (*MailOutbox)(nil)
	_ event.Emitter                 = (*Emitter)(nil)
)
