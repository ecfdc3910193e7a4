// Package read реализует HTTP-обработчик для получения конкретной записи генерации по ID.
//
// Handler извлекает ID из URL-параметров и uid пользователя из контекста,
// вызывает бизнес-логику чтения записи и возвращает её в JSON-формате.
// Чужая запись недоступна: чтение выполняется в рамках владельца.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/creator-credits/internal/http/middlewarectx"
	"github.com/magabrotheeeer/creator-credits/internal/http/response"
	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/services/generation"
)

// Service описывает интерфейс бизнес-логики чтения записи генерации.
type Service interface {
	Read(ctx context.Context, id int, userUID string) (*models.Generation, error)
}

// Handler обрабатывает запросы на получение записи генерации по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить запись генерации
// @Description Возвращает запись генерации текущего пользователя по ID.
// @Tags Generations
// @Produce  json
// @Param id path int true "ID записи"
// @Success 200 {object} map[string]any "Запись генерации"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Router /generations/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	uid, ok := r.Context().Value(middlewarectx.UID).(string)
	if !ok || uid == "" {
		log.Error("uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), id, uid)
	if err != nil {
		if errors.Is(err, generation.ErrGenerationNotFound) {
			log.Error("generation not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("generation not found"))
			return
		}
		log.Error("failed to read generation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read generation"))
		return
	}

	log.Info("success to read generation", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"record": res,
	}))
}
