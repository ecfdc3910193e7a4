// Package create реализует HTTP-обработчик для запуска новой AI-генерации.
//
// Handler принимает JSON-запрос с видом генерации и входными данными, валидирует их,
// извлекает uid пользователя из контекста, вызывает бизнес-логику генерации через сервис
// и возвращает созданную запись вместе с остатком кредитов в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/creator-credits/internal/http/middlewarectx"
	"github.com/magabrotheeeer/creator-credits/internal/http/response"
	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/services/generation"
)

// Handler управляет HTTP-запросами на запуск новых генераций.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для выполнения генерации,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики генераций
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики генерации.
type Service interface {
	Generate(ctx context.Context, userUID string, req models.DummyGeneration) (*models.Generation, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить новую генерацию
// @Description Списывает один кредит и запускает генерацию описания или превью. Возвращает запись и остаток кредитов.
// @Tags Generations
// @Accept  json
// @Produce  json
// @Param request body models.DummyGeneration true "Вид генерации и входные данные"
// @Success 200 {object} map[string]any "Запись генерации и остаток кредитов"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или нехватка кредитов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Сбой AI-провайдера"
// @Router /generations [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGeneration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	uid, ok := r.Context().Value(middlewarectx.UID).(string)
	if !ok || uid == "" {
		log.Error("uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	record, remaining, err := h.service.Generate(r.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrInvalidType), errors.Is(err, generation.ErrEmptyInput):
			log.Error("invalid generation request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, generation.ErrInsufficientCredits):
			log.Error("insufficient credits", slog.String("uid", uid))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("insufficient credits"))
		case errors.Is(err, generation.ErrUserNotFound):
			log.Error("user not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("generation failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("generation failed"))
		}
		return
	}

	log.Info("generation finished",
		slog.Int("generation_id", record.ID),
		slog.Int("remaining_credits", remaining))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"record":            record,
		"remaining_credits": remaining,
	}))
}
