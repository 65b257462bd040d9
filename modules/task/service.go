package task

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/taskdo/taskdo/pkg/logger"
)

// Service applies task list rules on top of the store. The account ID always
// comes from the authenticated principal, never from the request payload.
type Service struct {
	store  Store
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger for task events.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a task service backed by the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the account's tasks, newest first.
func (s *Service) List(ctx context.Context, accountID int64) ([]Task, error) {
	return s.store.ListByAccount(ctx, accountID)
}

// Create adds a task to the account's list.
func (s *Service) Create(ctx context.Context, accountID int64, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	created, err := s.store.Insert(ctx, &Task{
		AccountID: accountID,
		Title:     title,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.InfoContext(ctx, "task created",
		logger.AccountID(accountID),
		slog.Int64("task_id", created.ID),
	)
	return created, nil
}

// Toggle flips the done flag on the account's task.
func (s *Service) Toggle(ctx context.Context, accountID, taskID int64) (*Task, error) {
	task, err := s.store.Get(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}

	task.Done = !task.Done
	return s.store.Update(ctx, task)
}

// Rename changes the title of the account's task.
func (s *Service) Rename(ctx context.Context, accountID, taskID int64, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	task, err := s.store.Get(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = title
	return s.store.Update(ctx, task)
}

// Delete removes the account's task.
func (s *Service) Delete(ctx context.Context, accountID, taskID int64) error {
	return s.store.Delete(ctx, accountID, taskID)
}
