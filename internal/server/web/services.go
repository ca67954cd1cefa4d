package web

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/services"
)

// UserService is the subset of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (int64, error)
}

// TaskService is the subset of services.TaskService the handlers use.
type TaskService interface {
	Create(ctx context.Context, userID int64, name, description, dueYear, dueMonth, dueDay string) (int64, error)
	Delete(ctx context.Context, userID, taskID int64) error
	Dashboard(ctx context.Context, userID int64) (*services.Dashboard, error)
}

// SessionManager binds opaque tokens to user ids.
type SessionManager interface {
	Start(ctx context.Context, previous string, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	End(ctx context.Context, token string) error
}
