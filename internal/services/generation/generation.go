// Package generation содержит бизнес-логику платных AI-генераций.
//
// Порядок шагов фиксирован: валидация входа и баланса, атомарное списание
// кредита вместе с созданием pending-записи, вызов провайдера, финализация
// записи. Кредит списывается до обращения к провайдеру и не возвращается
// при неуспехе: оплачивается попытка, а не результат.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

// Ошибки бизнес-логики генераций.
var (
	// ErrInvalidType возвращается при неизвестном виде генерации.
	ErrInvalidType = errors.New("invalid generation type, use 'description' or 'thumbnail'")
	// ErrEmptyInput возвращается, когда во входных данных нет ни title, ни prompt.
	ErrEmptyInput = errors.New("input must contain title or prompt")
	// ErrInsufficientCredits возвращается при нулевом или отрицательном балансе.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUserNotFound возвращается, когда пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrGenerationFailed возвращается при сбое провайдера; кредит при этом
	// остается списанным.
	ErrGenerationFailed = errors.New("ai generation failed")
	// ErrGenerationNotFound возвращается при чтении несуществующей записи.
	ErrGenerationNotFound = errors.New("generation not found")
)

// Repository определяет методы хранилища для генераций и баланса.
type Repository interface {
	// GetUser возвращает пользователя с актуальным балансом.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// DebitAndCreate атомарно списывает кредит и создает pending-запись.
	DebitAndCreate(ctx context.Context, userUID string, gtype models.GenerationType,
		input models.GenerationInput) (int, *models.Generation, error)
	// FinalizeGeneration переводит запись в терминальный статус.
	FinalizeGeneration(ctx context.Context, id int, output *models.GenerationOutput,
		status models.GenerationStatus) error
	// ReadGeneration возвращает запись по ID в рамках владельца.
	ReadGeneration(ctx context.Context, id int, userUID string) (*models.Generation, error)
	// ListGenerations возвращает записи пользователя от новых к старым.
	ListGenerations(ctx context.Context, userUID string, limit, offset int) ([]*models.Generation, error)
}

// Cache описывает методы для кэширования финализированных записей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// DescriptionProvider — адаптер текстовых генераций.
type DescriptionProvider interface {
	GenerateDescription(ctx context.Context, content string) (string, error)
}

// ThumbnailProvider — адаптер синтеза изображений.
type ThumbnailProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Service реализует оркестрацию генераций.
type Service struct {
	repo         Repository
	cache        Cache
	descriptions DescriptionProvider
	thumbnails   ThumbnailProvider
	log          *slog.Logger
}

// New создает новый Service с внедренными зависимостями.
func New(repo Repository, cache Cache, descriptions DescriptionProvider,
	thumbnails ThumbnailProvider, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		cache:        cache,
		descriptions: descriptions,
		thumbnails:   thumbnails,
		log:          log,
	}
}

// Generate выполняет одну платную генерацию для пользователя и возвращает
// запись вместе с остатком кредитов после списания.
//
// Проверка баланса выполняется по свежим данным хранилища, но носит
// рекомендательный характер: параллельные запросы могут пройти ее
// одновременно, и тогда атомарное списание уведет баланс ниже нуля.
// Отрицательный баланс — перерасход, а не ошибка.
func (s *Service) Generate(ctx context.Context, userUID string, req models.DummyGeneration) (*models.Generation, int, error) {
	gtype := models.GenerationType(req.Type)
	switch gtype {
	case models.GenerationDescription, models.GenerationThumbnail:
	default:
		return nil, 0, ErrInvalidType
	}
	if req.Input.Title == "" && req.Input.Prompt == "" {
		return nil, 0, ErrEmptyInput
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	if user.CreditsLeft <= 0 {
		return nil, 0, ErrInsufficientCredits
	}

	remaining, record, err := s.repo.DebitAndCreate(ctx, userUID, gtype, req.Input)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	s.log.Info("credit debited, generation pending",
		slog.String("user_uid", userUID),
		slog.Int("generation_id", record.ID),
		slog.Int("credits_left", remaining))

	output, providerErr := s.dispatch(ctx, gtype, req.Input)
	if providerErr != nil {
		if ferr := s.repo.FinalizeGeneration(ctx, record.ID, nil, models.GenerationFailed); ferr != nil {
			s.log.Error("failed to finalize failed generation", sl.Err(ferr))
		}
		record.Status = models.GenerationFailed
		return record, remaining, fmt.Errorf("%w: %v", ErrGenerationFailed, providerErr)
	}

	if err = s.repo.FinalizeGeneration(ctx, record.ID, output, models.GenerationSuccess); err != nil {
		s.log.Error("failed to finalize successful generation", sl.Err(err))
		record.Status = models.GenerationFailed
		return record, remaining, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	record.Output = output
	record.Status = models.GenerationSuccess

	cacheKey := fmt.Sprintf("generation:%s:%d", userUID, record.ID)
	if err := s.cache.Set(ctx, cacheKey, record, time.Hour); err != nil {
		s.log.Warn("failed to cache generation", slog.String("key", cacheKey), sl.Err(err))
	}

	return record, remaining, nil
}

// dispatch вызывает адаптер, соответствующий виду генерации.
func (s *Service) dispatch(ctx context.Context, gtype models.GenerationType,
	input models.GenerationInput) (*models.GenerationOutput, error) {
	switch gtype {
	case models.GenerationDescription:
		content := input.Title
		if content == "" {
			content = input.Prompt
		}
		text, err := s.descriptions.GenerateDescription(ctx, content)
		if err != nil {
			return nil, err
		}
		return &models.GenerationOutput{Description: text}, nil
	case models.GenerationThumbnail:
		prompt := input.Prompt
		if prompt == "" {
			prompt = "YouTube thumbnail for " + input.Title
		}
		imageURL, err := s.thumbnails.GenerateImage(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return &models.GenerationOutput{ImageURL: imageURL}, nil
	default:
		return nil, ErrInvalidType
	}
}

// Read возвращает запись генерации пользователя, используя кеш для
// финализированных записей. Ключ кеша включает владельца: чужая запись
// по чужому ключу недоступна.
func (s *Service) Read(ctx context.Context, id int, userUID string) (*models.Generation, error) {
	cacheKey := fmt.Sprintf("generation:%s:%d", userUID, id)

	var cached models.Generation
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read generation from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	record, err := s.repo.ReadGeneration(ctx, id, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, err
	}

	if record.Status != models.GenerationPending {
		if err := s.cache.Set(ctx, cacheKey, record, time.Hour); err != nil {
			s.log.Warn("failed to cache generation", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return record, nil
}

// List возвращает записи генераций пользователя от новых к старым.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Generation, error) {
	return s.repo.ListGenerations(ctx, userUID, limit, offset)
}
