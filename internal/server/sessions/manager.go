package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
)

// Manager binds opaque tokens to user ids.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger logging.Logger

	newToken func() (string, error)
}

func NewManager(store Store, ttl time.Duration, logger logging.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger.With("module", "sessions"),
		newToken: func() (string, error) {
			return common.MakeRandHexString(common.SessionTokenBytes)
		},
	}
}

// Start binds a fresh token to userID. A non-empty previous token is unbound
// first, so a browser holds at most one live session.
func (m *Manager) Start(ctx context.Context, previous string, userID int64) (string, error) {
	if previous != "" {
		if err := m.store.Delete(ctx, previous); err != nil {
			m.logger.Warn(ctx, "failed to drop previous session", "error", err)
		}
	}

	token, err := m.newToken()
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}

	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}

	m.logger.Debug(ctx, "session started", "user_id", userID)
	return token, nil
}

// Resolve returns the user bound to token, or common.ErrorUnauthenticated.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthenticated
	}

	userID, err := m.store.Load(ctx, token)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			m.logger.Error(ctx, "session lookup failed", "error", err)
		}
		return 0, common.ErrorUnauthenticated
	}
	return userID, nil
}

// End unbinds token. Ending an unknown token is a no-op.
func (m *Manager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}
