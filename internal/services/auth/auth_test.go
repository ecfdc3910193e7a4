package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/creator-credits/internal/lib/jwt"
	"github.com/magabrotheeeer/creator-credits/internal/lib/password"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService() (*Service, *MockRepository) {
	repo := new(MockRepository)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return New(repo, maker), repo
}

func TestRegister_DefaultsToFreePlan(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.On("RegisterUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.PlanType == models.PlanFree &&
			u.CreditsLeft == models.DefaultFreeCredits &&
			u.PasswordHash != "secret123"
	})).Return("uid-1", nil)

	uid, err := svc.Register(ctx, "alice@example.com", "alice", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	repo.On("GetUserByUsername", ctx, "alice").Return(&models.User{
		UUID: "uid-1", Username: "alice", PasswordHash: hash}, nil)

	token, err := svc.Login(ctx, "alice", "secret123")

	require.NoError(t, err)
	claims, err := jwt.NewJWTMaker("test-secret", time.Hour).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "uid-1", claims.UserUID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	repo.On("GetUserByUsername", ctx, "alice").Return(&models.User{
		UUID: "uid-1", Username: "alice", PasswordHash: hash}, nil)

	_, err = svc.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.On("GetUserByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, "ghost", "secret123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.On("GetUser", ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := svc.GetCurrentUser(ctx, "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
