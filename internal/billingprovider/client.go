// Package billingprovider реализует клиент API платёжного провайдера
// для создания подписок. Обрабатывается только операция создания:
// дальнейший жизненный цикл подписки приходит асинхронными вебхуками.
package billingprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client — клиент API платёжного провайдера.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент с basic-авторизацией по ключам.
func NewClient(keyID, keySecret, apiURL string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateSubscriptionRequest представляет запрос на создание подписки.
type CreateSubscriptionRequest struct {
	PlanID         string `json:"plan_id"`         // Идентификатор тарифа у провайдера
	CustomerNotify int    `json:"customer_notify"` // Уведомлять ли клиента
	TotalCount     int    `json:"total_count"`     // Количество списаний
	Quantity       int    `json:"quantity"`        // Количество единиц тарифа
}

// Subscription представляет созданную у провайдера подписку.
type Subscription struct {
	ID     string `json:"id"`      // Идентификатор подписки
	PlanID string `json:"plan_id"` // Идентификатор тарифа
	Status string `json:"status"`  // Статус подписки, например "created"
}

// CreateSubscription отправляет запрос на создание подписки по тарифу planID.
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	const op = "billingprovider.CreateSubscription"

	reqParams := CreateSubscriptionRequest{
		PlanID:         planID,
		CustomerNotify: 1,
		TotalCount:     12,
		Quantity:       1,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/subscriptions", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var subscription Subscription
	if err = json.NewDecoder(resp.Body).Decode(&subscription); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &subscription, nil
}
