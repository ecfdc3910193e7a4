package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/creator-credits/internal/models"
)

// DebitAndCreate атомарно списывает один кредит с пользователя и создает
// запись генерации со статусом pending. Обе операции выполняются в одной
// транзакции: при сбое между списанием и вставкой откатываются обе, поэтому
// списанный кредит всегда имеет соответствующую запись.
//
// Списание — единый UPDATE с RETURNING, без предварительного чтения баланса,
// поэтому параллельные запросы не теряют обновления. Неотрицательность здесь
// не проверяется: предварительная проверка баланса в оркестраторе носит
// рекомендательный характер, и под гонкой баланс может уйти в минус.
func (s *Storage) DebitAndCreate(ctx context.Context, userUID string, gtype models.GenerationType,
	input models.GenerationInput) (int, *models.Generation, error) {
	const op = "storage.DebitAndCreate"
	select {
	case <-ctx.Done():
		return 0, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var remaining int
	debitQuery := `UPDATE users
			  SET credits_left = credits_left - 1
			  WHERE uid = $1
			  RETURNING credits_left`
	if err = tx.QueryRowContext(ctx, debitQuery, userUID).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	record := &models.Generation{
		UserUID: userUID,
		Type:    gtype,
		Input:   input,
		Status:  models.GenerationPending,
	}
	createQuery := `INSERT INTO generations (user_uid, type, input, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, createQuery,
		userUID, gtype, inputJSON, models.GenerationPending).Scan(&record.ID, &record.CreatedAt); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, record, nil
}

// FinalizeGeneration переводит запись генерации из pending в терминальный
// статус и записывает результат. Условие status = 'pending' в запросе
// гарантирует, что запись финализируется не более одного раза.
func (s *Storage) FinalizeGeneration(ctx context.Context, id int, output *models.GenerationOutput,
	status models.GenerationStatus) error {
	const op = "storage.FinalizeGeneration"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var outputJSON any
	if output != nil {
		data, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		outputJSON = data
	}

	query := `UPDATE generations
			  SET output = $2, status = $3
			  WHERE id = $1 AND status = 'pending'`
	result, err := s.DB.ExecContext(ctx, query, id, outputJSON, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrGenerationNotFound)
	}
	return nil
}

// ReadGeneration возвращает запись генерации по её ID в рамках пользователя-владельца.
func (s *Storage) ReadGeneration(ctx context.Context, id int, userUID string) (*models.Generation, error) {
	const op = "storage.ReadGeneration"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, type, input, output, status, created_at
			  FROM generations
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	record, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrGenerationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// ListGenerations возвращает список генераций пользователя с пагинацией,
// отсортированный от новых к старым.
func (s *Storage) ListGenerations(ctx context.Context, userUID string, limit, offset int) ([]*models.Generation, error) {
	const op = "storage.ListGenerations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, type, input, output, status, created_at
			  FROM generations
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Generation
	for rows.Next() {
		record, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*models.Generation, error) {
	var record models.Generation
	var inputJSON []byte
	var outputJSON []byte
	if err := row.Scan(&record.ID, &record.UserUID, &record.Type, &inputJSON,
		&outputJSON, &record.Status, &record.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputJSON, &record.Input); err != nil {
		return nil, err
	}
	if outputJSON != nil {
		record.Output = &models.GenerationOutput{}
		if err := json.Unmarshal(outputJSON, record.Output); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
