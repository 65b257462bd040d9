// Package task implements the per-account task list behind the login wall.
package task

import (
	"context"
	"errors"
	"time"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to a
// different account. Both cases are indistinguishable on purpose.
var ErrTaskNotFound = errors.New("task not found")

// ErrEmptyTitle is returned when a task is created or renamed without a
// title.
var ErrEmptyTitle = errors.New("task title must not be empty")

// Task is one entry on an account's list.
type Task struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence collaborator for tasks. Every operation is scoped
// by account so a task is never visible outside its owner.
type Store interface {
	// ListByAccount returns the account's tasks, newest first.
	ListByAccount(ctx context.Context, accountID int64) ([]Task, error)

	// Insert persists a new task and returns it with the generated ID.
	Insert(ctx context.Context, task *Task) (*Task, error)

	// Get returns the task only when it belongs to the account.
	Get(ctx context.Context, accountID, taskID int64) (*Task, error)

	// Update persists title and done changes for the account's task.
	Update(ctx context.Context, task *Task) (*Task, error)

	// Delete removes the account's task. Deleting a task that does not
	// belong to the account returns ErrTaskNotFound.
	Delete(ctx context.Context, accountID, taskID int64) error
}
