// Package webhook реализует HTTP-обработчик webhook-событий платёжного провайдера.
//
// Подпись считается HMAC-SHA256 от сырого тела запроса и сравнивается с
// заголовком X-Razorpay-Signature. Тело нельзя пересобирать из распарсенного
// JSON: повторная сериализация меняет байтовую раскладку и ломает подпись.
// Любое несовпадение подписи, отсутствие секрета или нечитаемое тело
// отклоняются без изменения состояния.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/creator-credits/internal/http/response"
	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/models"
)

// Service описывает интерфейс применения проверенного webhook-события.
type Service interface {
	ApplyEvent(ctx context.Context, event models.SubscriptionEvent) error
}

type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — структура webhook-события провайдера. Из вложенного объекта
// подписки нужны только идентификаторы.
type Payload struct {
	Event   string `json:"event"`
	Payload struct {
		Subscription struct {
			Entity struct {
				ID     string `json:"id"`
				PlanID string `json:"plan_id"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// Проверка подписи webhook (X-Razorpay-Signature)
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Принимает события подписок, проверяет HMAC-подпись по сырому телу запроса и применяет событие к тарифу пользователя.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param X-Razorpay-Signature header string true "HMAC-SHA256 подпись тела запроса (hex)"
// @Success 200 {object} map[string]any "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или нечитаемое тело"
// @Failure 500 {object} response.ErrorResponse "Секрет подписи не настроен"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(slog.String("op", op))

	if h.webhookSecret == "" {
		log.Error("webhook secret is not configured")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("webhook is not configured"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Razorpay-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	event := models.SubscriptionEvent{
		Event:          payload.Event,
		SubscriptionID: payload.Payload.Subscription.Entity.ID,
		PlanID:         payload.Payload.Subscription.Entity.PlanID,
	}
	if err := h.service.ApplyEvent(r.Context(), event); err != nil {
		log.Error("failed to apply webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Event),
		slog.String("subscription_id", event.SubscriptionID))
	render.JSON(w, r, map[string]any{"ok": true})
}
