// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, тарифный план и остаток кредитов.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// PlanType описывает тарифный план пользователя.
type PlanType string

// Поддерживаемые тарифные планы.
const (
	PlanFree   PlanType = "free"
	PlanPro    PlanType = "pro"
	PlanAgency PlanType = "agency"
)

// DefaultFreeCredits — количество кредитов, выдаваемых при регистрации.
const DefaultFreeCredits = 10

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID           string    // Уникальный идентификатор пользователя
	Email          string    // Электронная почта
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	PlanType       PlanType  // Текущий тарифный план
	CreditsLeft    int       // Остаток кредитов на генерации
	SubscriptionID *string   // Идентификатор подписки у платёжного провайдера (может отсутствовать)
	CreatedAt      time.Time // Дата регистрации
}
