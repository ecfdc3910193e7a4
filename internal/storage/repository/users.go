package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/creator-credits/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// План и стартовый баланс кредитов задаются вызывающей стороной.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, plan_type, credits_left)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.PlanType,
		user.CreditsLeft).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, plan_type, credits_left,
			      subscription_id, created_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID. Используется оркестратором
// генераций для проверки баланса по актуальным данным хранилища.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, plan_type, credits_left,
			      subscription_id, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// FindBySubscriptionID возвращает пользователя по идентификатору подписки
// у платёжного провайдера.
func (s *Storage) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.User, error) {
	const op = "storage.FindBySubscriptionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, plan_type, credits_left,
			      subscription_id, created_at
			  FROM users
			  WHERE subscription_id = $1`
	user, err := s.scanUser(s.DB.QueryRowContext(ctx, query, subscriptionID), op)
	if errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	return user, err
}

// AttachSubscription привязывает идентификатор подписки провайдера к пользователю.
func (s *Storage) AttachSubscription(ctx context.Context, userUID, subscriptionID string) error {
	const op = "storage.AttachSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_id = $2
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetPlanBySubscriptionID атомарно выставляет тарифный план и абсолютный
// остаток кредитов пользователю с данной подпиской. Операция — единый
// UPDATE по subscription_id, без предварительного чтения: повторное применение
// того же события даёт тот же результат.
func (s *Storage) SetPlanBySubscriptionID(ctx context.Context, subscriptionID string, plan models.Plan) (*models.User, error) {
	const op = "storage.SetPlanBySubscriptionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan_type = $2, credits_left = $3
			  WHERE subscription_id = $1
			  RETURNING uid, email, username, password_hash, plan_type, credits_left,
			      subscription_id, created_at`
	user, err := s.scanUser(s.DB.QueryRowContext(ctx, query, subscriptionID, plan.PlanType, plan.CreditsLeft), op)
	if errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	return user, err
}

// scanUser сканирует строку результата в models.User.
func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var subscriptionID sql.NullString
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.PlanType, &u.CreditsLeft, &subscriptionID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subscriptionID.Valid {
		u.SubscriptionID = &subscriptionID.String
	}
	return u, nil
}
