package message

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medictrans/oncall-api/internal/email"
	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository/mocks"
	"github.com/medictrans/oncall-api/internal/service/event"
)

var (
	patient = &model.User{ID: "p1", Email: "p1@example.com", Role: model.RolePatient}
	admin   = &model.User{ID: "a1", Email: "first-admin@example.com", Role: model.RoleAdmin}
	admin2  = &model.User{ID: "a2", Email: "second-admin@example.com", Role: model.RoleAdmin}
	request = &model.Request{ID: "r1", PatientID: "p1", ServiceIDs: []string{"s1"}}
)

type fixture struct {
	repo     *mocks.MessageRepository
	requests *mocks.RequestRepository
	users    *mocks.UserRepository
	services *mocks.ServiceRepository
	mailer   *mocks.Mailer
	events   *mocks.Emitter
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &mocks.MessageRepository{},
		requests: &mocks.RequestRepository{},
		users:    &mocks.UserRepository{},
		services: &mocks.ServiceRepository{},
		mailer:   &mocks.Mailer{},
		events:   &mocks.Emitter{},
	}
	f.svc = NewService(f.repo, f.requests, f.users, f.services, f.mailer, email.NewComposer(""), f.events)
	f.requests.On("Get", mock.Anything, "r1").Return(request, nil)
	f.services.On("List", mock.Anything).Return([]*model.Service{
		{ID: "s1", BGTitle: model.ServiceCatheterBG, ENTitle: model.ServiceCatheterEN},
	}, nil)
	return f
}

func TestPatientMessageMailsFirstAdmin(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
		return m.RequestID == "r1" && m.CreatorID == "p1" && m.Body == "when?" && !m.CreatedAt.IsZero()
	})).Return("m1", nil)
	f.users.On("List", mock.Anything).Return([]*model.User{patient, admin, admin2}, nil)
	f.mailer.On("Queue", mock.Anything, mock.MatchedBy(func(m *model.Email) bool {
		return m.To == "first-admin@example.com" && m.Message.Subject == "Request response"
	})).Return(nil)

	msg, err := f.svc.Create(context.Background(), patient, "r1", &model.CreateMessageRequest{Body: "when?"})

	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, []event.Type{event.MessageCreated}, f.events.Events)
	f.mailer.AssertExpectations(t)
}

func TestAdminMessageMailsPatient(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", mock.Anything, mock.Anything).Return("m2", nil)
	f.users.On("Get", mock.Anything, "p1").Return(patient, nil)
	f.mailer.On("Queue", mock.Anything, mock.MatchedBy(func(m *model.Email) bool {
		return m.To == "p1@example.com" && m.Message.Subject == "Отговор по заявка"
	})).Return(nil)

	_, err := f.svc.Create(context.Background(), admin, "r1", &model.CreateMessageRequest{Body: "tomorrow", Locale: "bg"})

	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
	f.users.AssertNotCalled(t, "List", mock.Anything)
}

func TestMessageWithoutAdminsSkipsMail(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", mock.Anything, mock.Anything).Return("m3", nil)
	f.users.On("List", mock.Anything).Return([]*model.User{patient}, nil)

	_, err := f.svc.Create(context.Background(), patient, "r1", &model.CreateMessageRequest{Body: "hello"})

	require.NoError(t, err)
	f.mailer.AssertNotCalled(t, "Queue", mock.Anything, mock.Anything)
}

func TestMessageOnForeignRequest(t *testing.T) {
	f := newFixture()
	stranger := &model.User{ID: "p9", Role: model.RolePatient}

	_, err := f.svc.Create(context.Background(), stranger, "r1", &model.CreateMessageRequest{Body: "hi"})

	require.Error(t, err)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageStoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", mock.Anything, mock.Anything).Return("", stderrors.New("unavailable"))

	_, err := f.svc.Create(context.Background(), patient, "r1", &model.CreateMessageRequest{Body: "hi"})

	require.Error(t, err)
	f.mailer.AssertNotCalled(t, "Queue", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.Events)
}

func TestList(t *testing.T) {
	f := newFixture()
	messages := []*model.Message{{ID: "m1", RequestID: "r1"}}
	f.repo.On("ListByRequest", mock.Anything, "r1").Return(messages, nil)

	got, err := f.svc.List(context.Background(), admin, "r1")

	require.NoError(t, err)
	assert.Equal(t, messages, got)
}
