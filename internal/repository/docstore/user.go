package docstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) col() *firestore.CollectionRef {
	return r.db.client.Collection(UsersCollection)
}

func (r *userRepository) Create(ctx context.Context, id, email string) (*model.User, error) {
	user := &model.User{
		ID:        id,
		Email:     email,
		Role:      model.RolePatient,
		CreatedAt: Timestamp(time.Now()),
	}

	start := time.Now()
	_, err := r.col().Doc(id).Set(ctx, user)
	r.db.observe("create_user", start, err)
	if err != nil {
		return nil, fail("create user", "user", err)
	}
	return user, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	start := time.Now()
	snap, err := r.col().Doc(id).Get(ctx)
	r.db.observe("get_user", start, err)
	if err != nil {
		return nil, fail("get user", "user", err)
	}
	return decodeUser(snap)
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	start := time.Now()
	snaps, err := r.col().Documents(ctx).GetAll()
	r.db.observe("list_users", start, err)
	if err != nil {
		return nil, fail("list users", "user", err)
	}

	users := make([]*model.User, 0, len(snaps))
	for _, snap := range snaps {
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch *model.UserPatch) error {
	start := time.Now()
	err := update(ctx, r.col().Doc(id), userFields(patch))
	r.db.observe("update_user", start, err)
	if err != nil {
		return fail("update user", "user", err)
	}
	return nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var u model.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fail("decode user", "user", err)
	}
	u.ID = snap.Ref.ID
	u.CreatedAt = Timestamp(u.CreatedAt)
	return &u, nil
}
