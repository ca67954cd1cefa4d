package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// UserService registers accounts and checks credentials.
type UserService struct {
	db          dbx.Handle
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	logger      logging.Logger
}

func NewUserService(db dbx.Handle, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("module", "users"),
	}
}

// Register creates an account and returns its id. The email is checked for
// uniqueness before the username.
func (s *UserService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if username == "" || email == "" || password == "" {
		return 0, common.ErrorMissingField
	}

	repo := s.repomanager.Users(dbx.FromContext(ctx, s.db))

	taken, err := repo.EmailExists(ctx, email)
	if err != nil {
		return 0, s.internal(ctx, "email lookup failed", err)
	}
	if taken {
		return 0, common.ErrorDuplicateEmail
	}

	taken, err = repo.UsernameExists(ctx, username)
	if err != nil {
		return 0, s.internal(ctx, "username lookup failed", err)
	}
	if taken {
		return 0, common.ErrorDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, s.internal(ctx, "password hashing failed", err)
	}

	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: hash})
	if err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, common.ErrorDuplicateEmail) || errors.Is(err, common.ErrorDuplicateUsername) {
			return 0, err
		}
		return 0, s.internal(ctx, "user insert failed", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.ID, nil
}

// Authenticate returns the id of the account matching email and password.
// Unknown email and wrong password both yield common.ErrorInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (int64, error) {
	if email == "" || password == "" {
		return 0, common.ErrorMissingField
	}

	repo := s.repomanager.Users(dbx.FromContext(ctx, s.db))

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyNothing(password)
			return 0, common.ErrorInvalidCredentials
		}
		return 0, s.internal(ctx, "user lookup failed", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return 0, common.ErrorInvalidCredentials
	}

	return user.ID, nil
}

// GetUser loads an account by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	repo := s.repomanager.Users(dbx.FromContext(ctx, s.db))

	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, s.internal(ctx, "user lookup failed", err)
	}
	return user, nil
}

func (s *UserService) internal(ctx context.Context, msg string, err error) error {
	s.logger.Error(ctx, msg, "error", err)
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
