// Package services contains server-side business logic. UserService handles
// registration, login against the session registry, and the token-gated
// account listing and deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/cryptox"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountd/internal/server/sessions"
)

// dummyPassword is hashed once at construction; Login verifies against it
// when the username is unknown so both failure paths cost one hash check.
const dummyPassword = "accountd-dummy-password"

// UserService provides account operations:
//   - Register: create accounts
//   - Login: verify credentials and issue a session token
//   - ListUsers, DeleteUser: token-gated account management
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *sessions.Registry
	hasher      cryptox.PasswordHasher
	dummyDigest string
}

// NewUserService wires a UserService to its store, session registry and
// password hasher.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, reg *sessions.Registry, h cryptox.PasswordHasher) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		sessions:    reg,
		hasher:      h,
	}
	if d, err := h.Hash(dummyPassword); err == nil {
		s.dummyDigest = d
	}
	return s
}

// Register hashes password and stores a new account. A taken username
// yields common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{UserName: username, PasswordHash: digest}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: error creating user: %v", common.ErrorInternal, err)
	}
	return u, nil
}

// Login checks the credentials and issues a new session token. Unknown
// usernames and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: error searching user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Authorize resolves a session token to the account id it was issued for.
func (s *UserService) Authorize(_ context.Context, token string) (int64, error) {
	return s.sessions.Authorize(token)
}

// ListUsers returns every account. Any valid token may list.
func (s *UserService) ListUsers(ctx context.Context, token string) ([]*models.User, error) {
	if _, err := s.sessions.Authorize(token); err != nil {
		return nil, err
	}

	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: error listing users: %v", common.ErrorInternal, err)
	}
	return users, nil
}

// DeleteUser removes the account with the given id. Any valid token may
// delete any account, including its own; tokens issued to the deleted
// account stay in the registry.
func (s *UserService) DeleteUser(ctx context.Context, token string, id int64) error {
	if _, err := s.sessions.Authorize(token); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetUserByID(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: error deleting user: %v", common.ErrorInternal, err)
	}
	return nil
}
