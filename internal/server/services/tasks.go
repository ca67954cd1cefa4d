package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// Dashboard is what a signed-in user sees on their landing page.
type Dashboard struct {
	User  *models.User
	Tasks []models.Task
}

// TaskService manages a user's tasks.
type TaskService struct {
	db               dbx.Handle
	repomanager      repomanager.RepositoryManager
	logger           logging.Logger
	enforceOwnership bool
}

// NewTaskService builds the service. With enforceOwnership unset, Delete
// removes any task by id regardless of who owns it.
func NewTaskService(db dbx.Handle, m repomanager.RepositoryManager, logger logging.Logger, enforceOwnership bool) *TaskService {
	return &TaskService{
		db:               db,
		repomanager:      m,
		logger:           logger.With("module", "tasks"),
		enforceOwnership: enforceOwnership,
	}
}

// ListForUser returns the user's tasks in the order they were created.
func (s *TaskService) ListForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	repo := s.repomanager.Tasks(dbx.FromContext(ctx, s.db))

	tasks, err := repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "task list failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return tasks, nil
}

// EnsureDefaultTask gives a user with no tasks the default one. The check and
// insert run under a per-user advisory lock, so concurrent callers insert once.
func (s *TaskService) EnsureDefaultTask(ctx context.Context, userID int64) error {
	err := dbx.WithTx(ctx, dbx.FromContext(ctx, s.db), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		if err := repo.LockOwner(ctx, userID); err != nil {
			return err
		}

		n, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		if _, err := repo.Create(ctx, models.NewDefaultTask(userID)); err != nil {
			return err
		}
		s.logger.Info(ctx, "default task provisioned", "user_id", userID)
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "default task provisioning failed", "user_id", userID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// Create adds a task for userID and returns its id. The due date is assembled
// as year-MM-DD. Storage failures are logged and reported only as
// common.ErrorTaskCreationFailed.
func (s *TaskService) Create(ctx context.Context, userID int64, name, description, dueYear, dueMonth, dueDay string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name", common.ErrorInvalidField)
	}

	dueDate, err := buildDueDate(dueYear, dueMonth, dueDay)
	if err != nil {
		return 0, err
	}

	repo := s.repomanager.Tasks(dbx.FromContext(ctx, s.db))

	task, err := repo.Create(ctx, &models.Task{
		UserID:      userID,
		Name:        name,
		Description: description,
		DueDate:     dueDate,
	})
	if err != nil {
		s.logger.Error(ctx, "task creation failed", "user_id", userID, "error", err)
		return 0, common.ErrorTaskCreationFailed
	}

	return task.ID, nil
}

func buildDueDate(year, month, day string) (string, error) {
	for _, part := range []struct{ name, val string }{
		{"due-date-year", year},
		{"due-date-month", month},
		{"due-date-day", day},
	} {
		if !isDigits(part.val) {
			return "", fmt.Errorf("%w: %s", common.ErrorInvalidField, part.name)
		}
	}
	return year + "-" + zeroPad2(month) + "-" + zeroPad2(day), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func zeroPad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

// Delete removes a task. Ownership is checked only when the service was built
// with enforceOwnership; a task that does not exist is silently ignored.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	repo := s.repomanager.Tasks(dbx.FromContext(ctx, s.db))

	var err error
	if s.enforceOwnership {
		err = repo.DeleteOwned(ctx, taskID, userID)
	} else {
		err = repo.Delete(ctx, taskID)
	}
	if err != nil {
		s.logger.Error(ctx, "task delete failed", "task_id", taskID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// Dashboard loads the user, provisions the default task if needed and lists
// the user's tasks. A user id with no account is common.ErrorUnauthenticated.
func (s *TaskService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	users := s.repomanager.Users(dbx.FromContext(ctx, s.db))

	user, err := users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.EnsureDefaultTask(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{User: user, Tasks: tasks}, nil
}
