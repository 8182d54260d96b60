// Package auth manages local node logins. Credentials are checked
// entirely on this node: passwords are hashed with Argon2id and a
// per-user random salt, and nothing is ever sent anywhere.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/users"
)

// Argon2id parameters. Conservative for desktop hardware.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	hashLen      = 32
	saltLen      = 16
)

// Service implements register and login for local users.
type Service struct {
	repo   users.Repository
	logger logging.Logger
}

func NewService(repo users.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "auth")}
}

func hashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, hashLen)
}

// Register creates a new local user. Returns common.ErrLoginTaken when the
// login exists.
func (s *Service) Register(ctx context.Context, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: empty login or password", common.ErrUnauthorized)
	}

	if _, err := s.repo.GetByLogin(ctx, login); err == nil {
		return nil, common.ErrLoginTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("checking login: %w", err)
	}

	salt := common.GenerateRandByteArray(saltLen)

	u := &models.User{
		Login:        login,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "login", login)
	return u, nil
}

// Login verifies credentials and returns the user. Unknown logins and bad
// passwords both map to common.ErrUnauthorized so callers cannot probe
// which logins exist.
func (s *Service) Login(ctx context.Context, login, password string) (*models.User, error) {
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	hash := hashPassword(password, u.Salt)
	if subtle.ConstantTimeCompare(hash, u.PasswordHash) != 1 {
		return nil, common.ErrUnauthorized
	}
	return u, nil
}
