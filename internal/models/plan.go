package models

// Plan описывает целевое состояние пользователя при применении тарифа:
// тарифный план и абсолютное значение остатка кредитов.
type Plan struct {
	PlanType    PlanType // Тарифный план
	CreditsLeft int      // Количество кредитов, выдаваемое на плане
}

// SubscriptionEvent — событие жизненного цикла подписки от платёжного провайдера.
// Событие эфемерно: оно не сохраняется и используется только для вычисления
// целевой пары {PlanType, CreditsLeft} для пользователя с данной подпиской.
type SubscriptionEvent struct {
	Event          string // Имя события, например subscription.activated
	SubscriptionID string // Идентификатор подписки у провайдера
	PlanID         string // Идентификатор тарифа у провайдера
}
