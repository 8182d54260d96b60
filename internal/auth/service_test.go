package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
)

type memUserRepo struct {
	byLogin map[string]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byLogin: make(map[string]models.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := r.byLogin[u.Login]; ok {
		return common.ErrLoginTaken
	}
	u.ID = int64(len(r.byLogin) + 1)
	r.byLogin[u.Login] = *u
	return nil
}

func (r *memUserRepo) GetByLogin(_ context.Context, login string) (*models.User, error) {
	u, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := u
	return &c, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())

	u, err := svc.Register(ctx, "operator", "correct horse")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEmpty(t, u.Salt)
	assert.NotContains(t, string(u.PasswordHash), "correct horse")

	got, err := svc.Login(ctx, "operator", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())
	_, err := svc.Register(ctx, "operator", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "operator", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())
	_, err := svc.Login(context.Background(), "ghost", "anything")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())
	_, err := svc.Register(ctx, "operator", "one")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "operator", "two")
	assert.ErrorIs(t, err, common.ErrLoginTaken)
}

func TestRegisterEmptyCredentials(t *testing.T) {
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())
	_, err := svc.Register(context.Background(), "", "pw")
	assert.Error(t, err)
	_, err = svc.Register(context.Background(), "login", "")
	assert.Error(t, err)
}

func TestSaltsDiffer(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemUserRepo(), logging.NewNopLogger())
	a, err := svc.Register(ctx, "a", "same password")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "b", "same password")
	require.NoError(t, err)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}
