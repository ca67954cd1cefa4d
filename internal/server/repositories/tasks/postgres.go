// Package tasks provides the PostgreSQL-backed task repository.
package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB, *sql.Tx or a request scope).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the task and fills in the generated id. A nil Status is stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (name, description, due_date, status, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var status sql.NullString
	if task.Status != nil {
		status = sql.NullString{String: *task.Status, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		task.Name, task.Description, task.DueDate, status, task.UserID).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// ListByUser returns the user's tasks in insertion order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	query :=
		`SELECT id, name, description, to_char(due_date, 'YYYY-MM-DD'), status, user_id FROM tasks
		 WHERE user_id = $1
		 ORDER BY id
		 `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Task, 0)
	for rows.Next() {
		var (
			item        models.Task
			description sql.NullString
			dueDate     sql.NullString
			status      sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &description, &dueDate, &status, &item.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Description = description.String
		item.DueDate = dueDate.String
		if status.Valid {
			s := status.String
			item.Status = &s
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// LockOwner takes a transaction-scoped advisory lock keyed by the user id.
// It must run inside a transaction; the lock is released on commit or rollback.
func (r *PostgresRepository) LockOwner(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the task by id regardless of owner. Deleting a missing id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteOwned removes the task only when it belongs to userID.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
