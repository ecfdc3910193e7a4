// Package billing содержит бизнес-логику подписок: оформление подписки у
// платёжного провайдера и применение его webhook-событий к тарифу и балансу
// пользователя.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/creator-credits/internal/billingprovider"
	"github.com/magabrotheeeer/creator-credits/internal/config"
	"github.com/magabrotheeeer/creator-credits/internal/lib/sl"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

// События платёжного провайдера, которые меняют тариф пользователя.
const (
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionCharged   = "subscription.charged"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// applyTimeout ограничивает запись в хранилище при обработке webhook-события,
// чтобы провайдер не ждал ответа дольше необходимого.
const applyTimeout = 10 * time.Second

// routingKeyPlanChange — ключ маршрутизации уведомлений о смене тарифа.
const routingKeyPlanChange = "plan-change"

// ErrUnknownPlan возвращается при оформлении подписки на несуществующий тариф.
var ErrUnknownPlan = errors.New("unknown plan")

// Repository определяет методы хранилища для работы с подписками.
type Repository interface {
	// AttachSubscription привязывает идентификатор подписки к пользователю.
	AttachSubscription(ctx context.Context, userUID, subscriptionID string) error
	// SetPlanBySubscriptionID выставляет тариф и баланс по идентификатору подписки.
	SetPlanBySubscriptionID(ctx context.Context, subscriptionID string, plan models.Plan) (*models.User, error)
}

// SubscriptionProvider описывает создание подписки у платёжного провайдера.
type SubscriptionProvider interface {
	CreateSubscription(ctx context.Context, planID string) (*billingprovider.Subscription, error)
}

// NotificationPublisher публикует уведомления о смене тарифа в брокер.
type NotificationPublisher interface {
	Publish(routingKey string, message any) error
}

// PlanChangeNotification — сообщение в брокер об изменении тарифа пользователя.
type PlanChangeNotification struct {
	UserUID     string `json:"user_uid"`
	Email       string `json:"email"`
	PlanType    string `json:"plan_type"`
	CreditsLeft int    `json:"credits_left"`
}

// Service реализует оформление подписок и применение webhook-событий.
type Service struct {
	repo      Repository
	provider  SubscriptionProvider
	publisher NotificationPublisher
	plans     map[string]models.Plan
	planIDs   map[string]string
	log       *slog.Logger
}

// New создает новый Service. Маппинг тарифов берется из конфигурации:
// каждому plan_id провайдера соответствует тариф приложения и количество
// кредитов на нем.
func New(repo Repository, provider SubscriptionProvider, publisher NotificationPublisher,
	mappings []config.PlanMapping, log *slog.Logger) *Service {
	plans := make(map[string]models.Plan, len(mappings))
	planIDs := make(map[string]string, len(mappings))
	for _, m := range mappings {
		plans[m.PlanID] = models.Plan{
			PlanType:    models.PlanType(m.PlanType),
			CreditsLeft: m.Credits,
		}
		planIDs[m.PlanType] = m.PlanID
	}
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		plans:     plans,
		planIDs:   planIDs,
		log:       log,
	}
}

// Subscribe оформляет подписку на тариф planType у платёжного провайдера
// и привязывает её к пользователю. Тариф и кредиты меняются не здесь,
// а после webhook-события об активации подписки.
func (s *Service) Subscribe(ctx context.Context, userUID, planType string) (*billingprovider.Subscription, error) {
	const op = "services.billing.Subscribe"

	planID, ok := s.planIDs[planType]
	if !ok {
		return nil, ErrUnknownPlan
	}
	subscription, err := s.provider.CreateSubscription(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AttachSubscription(ctx, userUID, subscription.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription attached",
		slog.String("user_uid", userUID),
		slog.String("subscription_id", subscription.ID),
		slog.String("plan_id", planID))
	return subscription, nil
}

// ApplyEvent применяет проверенное webhook-событие к тарифу пользователя.
//
// Запись идемпотентна: тариф и баланс выставляются абсолютными значениями,
// поэтому повтор того же события не меняет результат. Событие по
// неизвестной подписке не считается ошибкой: подписка могла быть оформлена
// вне приложения.
func (s *Service) ApplyEvent(ctx context.Context, event models.SubscriptionEvent) error {
	var plan models.Plan
	switch event.Event {
	case EventSubscriptionActivated, EventSubscriptionCharged:
		plan = s.planFor(event.PlanID)
	case EventSubscriptionCancelled:
		plan = models.Plan{PlanType: models.PlanFree, CreditsLeft: 0}
	default:
		s.log.Info("skipping unhandled billing event", slog.String("event", event.Event))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	user, err := s.repo.SetPlanBySubscriptionID(ctx, event.SubscriptionID, plan)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			s.log.Warn("billing event for unknown subscription",
				slog.String("event", event.Event),
				slog.String("subscription_id", event.SubscriptionID))
			return nil
		}
		return err
	}
	s.log.Info("plan updated",
		slog.String("user_uid", user.UUID),
		slog.String("plan_type", string(user.PlanType)),
		slog.Int("credits_left", user.CreditsLeft))

	notification := PlanChangeNotification{
		UserUID:     user.UUID,
		Email:       user.Email,
		PlanType:    string(user.PlanType),
		CreditsLeft: user.CreditsLeft,
	}
	if err := s.publisher.Publish(routingKeyPlanChange, notification); err != nil {
		s.log.Warn("failed to publish plan change notification", sl.Err(err))
	}
	return nil
}

// planFor возвращает тариф приложения по plan_id провайдера. Неизвестный
// plan_id при активной подписке трактуется как pro: пользователь уже
// заплатил, и оставлять его на free из-за рассинхрона конфигурации нельзя.
func (s *Service) planFor(planID string) models.Plan {
	if plan, ok := s.plans[planID]; ok {
		return plan
	}
	if planID, ok := s.planIDs[string(models.PlanPro)]; ok {
		if plan, ok := s.plans[planID]; ok {
			return plan
		}
	}
	return models.Plan{PlanType: models.PlanPro, CreditsLeft: 100}
}
