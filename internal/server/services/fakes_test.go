package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeStore is an in-memory stand-in for both tables.
type fakeStore struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	tasks  map[int64]models.Task
	nextID int64

	// injected failures
	usersErr     error
	createErr    error
	listErr      error
	deleteErr    error
	lockErr      error
	createdTasks int
	lastDelete   string

	// countDelay widens the window between counting and inserting
	countDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]*models.User{}, tasks: map[int64]models.Task{}}
}

type fakeRepoManager struct {
	store *fakeStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return &fakeUsersRepo{m.store} }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository            { return &fakeTasksRepo{m.store} }

type fakeUsersRepo struct{ s *fakeStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorDuplicateEmail
		}
		if existing.UserName == u.UserName {
			return nil, common.ErrorDuplicateUsername
		}
	}
	r.s.nextID++
	u.ID = r.s.nextID
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := r.GetUserByEmail(ctx, email)
	if err == common.ErrorNotFound {
		return false, nil
	}
	return u != nil, err
}

func (r *fakeUsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return false, r.s.usersErr
	}
	for _, u := range r.s.users {
		if u.UserName == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeTasksRepo struct{ s *fakeStore }

func (r *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	r.s.nextID++
	t.ID = r.s.nextID
	r.s.tasks[t.ID] = *t
	r.s.createdTasks++
	return t, nil
}

func (r *fakeTasksRepo) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	out := make([]models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTasksRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, err := r.ListByUser(ctx, userID)
	if r.s.countDelay > 0 {
		time.Sleep(r.s.countDelay)
	}
	return int64(len(list)), err
}

func (r *fakeTasksRepo) LockOwner(ctx context.Context, userID int64) error {
	return r.s.lockErr
}

func (r *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastDelete = "any"
	if r.s.deleteErr != nil {
		return r.s.deleteErr
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *fakeTasksRepo) DeleteOwned(ctx context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastDelete = "owned"
	if r.s.deleteErr != nil {
		return r.s.deleteErr
	}
	if t, ok := r.s.tasks[id]; ok && t.UserID == userID {
		delete(r.s.tasks, id)
	}
	return nil
}

// lockingRepoManager hands out task repos whose LockOwner takes a real
// transaction-scoped lock: a write inside the caller's transaction holds the
// database's writer lock until commit or rollback.
type lockingRepoManager struct {
	fakeRepoManager
}

func (m *lockingRepoManager) Tasks(db dbx.DBTX) tasks.Repository {
	return &lockingTasksRepo{fakeTasksRepo: fakeTasksRepo{m.store}, db: db}
}

type lockingTasksRepo struct {
	fakeTasksRepo
	db dbx.DBTX
}

func (r *lockingTasksRepo) LockOwner(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO owner_locks (user_id) VALUES (?)`, userID)
	return err
}
