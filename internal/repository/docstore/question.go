package docstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

type questionRepository struct {
	db *DB
}

func NewQuestionRepository(db *DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) (string, error) {
	start := time.Now()
	ref, _, err := r.db.client.Collection(QuestionsCollection).Add(ctx, question)
	r.db.observe("create_question", start, err)
	if err != nil {
		return "", fail("create question", "question", err)
	}
	question.ID = ref.ID
	return ref.ID, nil
}

func (r *questionRepository) List(ctx context.Context) ([]*model.Question, error) {
	start := time.Now()
	snaps, err := r.db.client.Collection(QuestionsCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).
		GetAll()
	r.db.observe("list_questions", start, err)
	if err != nil {
		return nil, fail("list questions", "question", err)
	}

	questions := make([]*model.Question, 0, len(snaps))
	for _, snap := range snaps {
		var q model.Question
		if err := snap.DataTo(&q); err != nil {
			return nil, fail("decode question", "question", err)
		}
		q.ID = snap.Ref.ID
		q.CreatedAt = Timestamp(q.CreatedAt)
		questions = append(questions, &q)
	}
	return questions, nil
}
