package task

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdo/taskdo/pkg/pg"
)

// PgStore persists tasks in Postgres.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a store backed by the given pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

var _ Store = (*PgStore)(nil)

func (s *PgStore) ListByAccount(ctx context.Context, accountID int64) ([]Task, error) {
	const query = `
		SELECT id, account_id, title, done, created_at, updated_at
		FROM tasks
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[Task])
	if err != nil {
		return nil, fmt.Errorf("collect tasks: %w", err)
	}
	return tasks, nil
}

func (s *PgStore) Insert(ctx context.Context, task *Task) (*Task, error) {
	const query = `
		INSERT INTO tasks (account_id, title, done)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query, task.AccountID, task.Title, task.Done).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		// The owning account can be deleted between session issue and insert.
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *PgStore) Get(ctx context.Context, accountID, taskID int64) (*Task, error) {
	const query = `
		SELECT id, account_id, title, done, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND account_id = $2`

	var task Task
	err := s.pool.QueryRow(ctx, query, taskID, accountID).Scan(
		&task.ID,
		&task.AccountID,
		&task.Title,
		&task.Done,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

func (s *PgStore) Update(ctx context.Context, task *Task) (*Task, error) {
	const query = `
		UPDATE tasks
		SET title = $3, done = $4, updated_at = now()
		WHERE id = $1 AND account_id = $2
		RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query, task.ID, task.AccountID, task.Title, task.Done).
		Scan(&task.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *PgStore) Delete(ctx context.Context, accountID, taskID int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND account_id = $2`

	tag, err := s.pool.Exec(ctx, query, taskID, accountID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
