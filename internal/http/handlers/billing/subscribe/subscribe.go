// Package subscribe реализует HTTP-обработчик оформления подписки на платный тариф.
//
// Handler принимает JSON-запрос с тарифом, валидирует его, извлекает uid
// пользователя из контекста, создает подписку у платёжного провайдера через
// сервис и возвращает её идентификатор. Тариф и кредиты меняются позже,
// после webhook-события об активации подписки.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/creator-credits/internal/billingprovider"
	"github.com/magabrotheeeer/creator-credits/internal/http/middlewarectx"
	"github.com/magabrotheeeer/creator-credits/internal/http/response"
	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/services/billing"
)

// Request — входные данные для оформления подписки.
type Request struct {
	PlanType string `json:"plan_type" validate:"required,oneof=pro agency"`
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID, planType string) (*billingprovider.Subscription, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку на тариф
// @Description Создает подписку у платёжного провайдера и привязывает её к пользователю.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф подписки"
// @Success 200 {object} map[string]any "Данные созданной подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или неизвестный тариф"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /billing/subscribe [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

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

	subscription, err := h.service.Subscribe(r.Context(), uid, req.PlanType)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			log.Error("unknown plan", slog.String("plan_type", req.PlanType))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("subscription created",
		slog.String("subscription_id", subscription.ID),
		slog.String("plan_type", req.PlanType))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_id": subscription.ID,
		"plan_id":         subscription.PlanID,
		"status":          subscription.Status,
	}))
}
