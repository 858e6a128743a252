package repository

import (
	"context"

	"github.com/medictrans/oncall-api/internal/model"
)

// All repository interfaces in one file.
//
// Create methods store the record under a generated id, write that id back
// into the passed struct and return it. Update methods merge only the
// supplied fields into an existing document. Get and Update methods fail
// with a not-found AppError when the document is missing.
type (
	UserRepository interface {
		// Create stores a patient record keyed by the identity id.
		Create(ctx context.Context, id, email string) (*model.User, error)
		Get(ctx context.Context, id string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		Update(ctx context.Context, id string, patch *model.UserPatch) error
	}

	RequestRepository interface {
		Create(ctx context.Context, request *model.Request) (string, error)
		Get(ctx context.Context, id string) (*model.Request, error)
		// List returns all requests ordered by appointment.
		List(ctx context.Context) ([]*model.Request, error)
		// ListByPatient returns a patient's requests ordered by appointment.
		ListByPatient(ctx context.Context, patientID string) ([]*model.Request, error)
		Update(ctx context.Context, id string, patch *model.RequestPatch) error
		Delete(ctx context.Context, id string) error
	}

	MessageRepository interface {
		Create(ctx context.Context, message *model.Message) (string, error)
		// ListByRequest returns a request's messages ordered by creation time.
		ListByRequest(ctx context.Context, requestID string) ([]*model.Message, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) (string, error)
		List(ctx context.Context) ([]*model.Service, error)
		Update(ctx context.Context, id string, patch *model.ServicePatch) error
		Delete(ctx context.Context, id string) error
	}

	QuestionRepository interface {
		Create(ctx context.Context, question *model.Question) (string, error)
		// List returns questions newest first.
		List(ctx context.Context) ([]*model.Question, error)
	}

	EmailRepository interface {
		Create(ctx context.Context, email *model.Email) (string, error)
	}

	// MailOutbox is the relay side of the mails collection.
	MailOutbox interface {
		ListPending(ctx context.Context, limit int) ([]*model.Email, error)
		MarkDelivered(ctx context.Context, id string, attempts int) error
		MarkFailed(ctx context.Context, id string, attempts int, cause error) error
	}
)
