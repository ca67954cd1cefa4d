package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	LockOwner(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
	DeleteOwned(ctx context.Context, id, userID int64) error
}
