// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/creator-credits/internal/lib/jwt"
	"github.com/magabrotheeeer/creator-credits/internal/lib/password"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

// Ошибки бизнес-логики аутентификации.
var (
	// ErrInvalidCredentials возвращается при неверном логине или пароле.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound возвращается, когда пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
)

// Repository определяет методы хранилища для работы с пользователями.
type Repository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Service реализует регистрацию, вход и чтение текущего пользователя.
type Service struct {
	repo     Repository
	jwtMaker jwt.Maker
}

// New создает новый Service с внедренными зависимостями.
func New(repo Repository, jwtMaker jwt.Maker) *Service {
	return &Service{repo: repo, jwtMaker: jwtMaker}
}

// Register создает нового пользователя с бесплатным тарифом и стартовым
// запасом кредитов, возвращает его UID.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		PlanType:     models.PlanFree,
		CreditsLeft:  models.DefaultFreeCredits,
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет учетные данные и возвращает подписанный JWT-токен.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// GetCurrentUser возвращает профиль пользователя с актуальным балансом.
func (s *Service) GetCurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
