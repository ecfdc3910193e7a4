// Package models содержит доменные структуры генераций,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// GenerationType описывает вид генерации. Тип закрытый: описание или превью,
// других вариантов бизнес-логика не допускает.
type GenerationType string

// Виды генерации.
const (
	GenerationDescription GenerationType = "description"
	GenerationThumbnail   GenerationType = "thumbnail"
)

// GenerationStatus описывает статус записи генерации.
// Переход строго односторонний: pending -> success | failed.
type GenerationStatus string

// Статусы записи генерации.
const (
	GenerationPending GenerationStatus = "pending"
	GenerationSuccess GenerationStatus = "success"
	GenerationFailed  GenerationStatus = "failed"
)

// GenerationInput — входные данные генерации, пришедшие от клиента.
// Для описания обязателен title или prompt, для превью используется prompt,
// либо шаблон на основе title.
type GenerationInput struct {
	Title  string `json:"title,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// GenerationOutput — результат генерации. Поле заполняется только одно,
// соответствующее виду генерации.
type GenerationOutput struct {
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Generation представляет собой запись о попытке генерации,
// используемую в бизнес-логике и хранилище. Поле Output равно nil,
// пока запись не финализирована со статусом success.
type Generation struct {
	ID        int               `json:"id"`               // Идентификатор записи
	UserUID   string            `json:"user_uid"`         // UID пользователя-владельца
	Type      GenerationType    `json:"type"`             // Вид генерации
	Input     GenerationInput   `json:"input"`            // Входные данные
	Output    *GenerationOutput `json:"output,omitempty"` // Результат (absent до финализации)
	Status    GenerationStatus  `json:"status"`           // Текущий статус
	CreatedAt time.Time         `json:"created_at"`       // Время создания записи
}

// DummyGeneration используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Generation. Вид генерации приходит строкой,
// чтобы его можно было валидировать вручную.
type DummyGeneration struct {
	Type  string          `json:"type" validate:"required"` // Вид генерации: description или thumbnail
	Input GenerationInput `json:"input"`                    // Входные данные
}
