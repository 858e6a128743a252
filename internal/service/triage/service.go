package triage

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

const messageFetchConcurrency = 8

// Statistics is the admin dashboard summary.
type Statistics struct {
	Users                    int                        `json:"users"`
	Requests                 int                        `json:"requests"`
	PercentUsersWithRequests float64                    `json:"percent_users_with_requests"`
	ByStatus                 map[model.TriageStatus]int `json:"by_status"`
}

type TriageServicer interface {
	Board(ctx context.Context) (map[model.TriageStatus][]*model.Request, error)
	Requests(ctx context.Context, status model.TriageStatus) ([]*model.Request, error)
	Statistics(ctx context.Context) (*Statistics, error)
}

type Service struct {
	requests repository.RequestRepository
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewService(requests repository.RequestRepository, messages repository.MessageRepository, users repository.UserRepository) *Service {
	return &Service{
		requests: requests,
		messages: messages,
		users:    users,
	}
}

type snapshot struct {
	requests []*model.Request
	users    []*model.User
	messages []*model.Message
}

// Board groups every request by triage status.
func (s *Service) Board(ctx context.Context) (map[model.TriageStatus][]*model.Request, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return model.GroupByStatus(snap.requests, snap.messages, snap.users), nil
}

func (s *Service) Requests(ctx context.Context, status model.TriageStatus) ([]*model.Request, error) {
	board, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}
	return board[status], nil
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		Users:                    len(snap.users),
		Requests:                 len(snap.requests),
		PercentUsersWithRequests: model.PercentUsersWithRequests(snap.users, snap.requests),
		ByStatus:                 make(map[model.TriageStatus]int, len(model.TriageStatuses)),
	}
	for status, requests := range model.GroupByStatus(snap.requests, snap.messages, snap.users) {
		stats.ByStatus[status] = len(requests)
	}
	return stats, nil
}

// load reads requests and users in parallel, then every request's messages.
// Any failure fails the whole load.
func (s *Service) load(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		requests, err := s.requests.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}
		snap.requests = requests
		return nil
	})
	g.Go(func() error {
		users, err := s.users.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		snap.users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(messageFetchConcurrency)
	for _, r := range snap.requests {
		g.Go(func() error {
			messages, err := s.messages.ListByRequest(gctx, r.ID)
			if err != nil {
				return fmt.Errorf("failed to list messages of request %s: %w", r.ID, err)
			}
			mu.Lock()
			snap.messages = append(snap.messages, messages...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

var _ TriageServicer = (*Service)(nil)
