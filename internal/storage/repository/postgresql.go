// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, их кредитами и записями генераций.
// Все мутации баланса выполняются атомарными запросами на стороне базы,
// а не чтением-изменением-записью в коде приложения.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, различимые на уровне бизнес-логики.
var (
	// ErrUserNotFound возвращается, когда пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrGenerationNotFound возвращается, когда запись генерации не существует
	// или уже финализирована.
	ErrGenerationNotFound = errors.New("generation not found or already finalized")
	// ErrSubscriptionNotFound возвращается, когда ни у одного пользователя
	// нет подписки с данным идентификатором.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и генерациями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
