package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/creator-credits/internal/models"
)

const testSecret = "whsec_test"

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ApplyEvent(ctx context.Context, event models.SubscriptionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func activatedBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": "subscription.activated",
		"payload": map[string]any{
			"subscription": map[string]any{
				"entity": map[string]any{
					"id":      "sub_1",
					"plan_id": "plan_pro_monthly",
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestWebhookHandler_ValidSignature(t *testing.T) {
	svcMock := new(ServiceMock)
	svcMock.On("ApplyEvent", mock.Anything, models.SubscriptionEvent{
		Event:          "subscription.activated",
		SubscriptionID: "sub_1",
		PlanID:         "plan_pro_monthly",
	}).Return(nil).Once()
	handler := New(newNoopLogger(), svcMock, testSecret)

	body := activatedBody(t)
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign(testSecret, body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, true, got["ok"])
	svcMock.AssertExpectations(t)
}

func TestWebhookHandler_TamperedBody(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock, testSecret)

	body := activatedBody(t)
	signature := sign(testSecret, body)
	tampered := bytes.Replace(body, []byte("sub_1"), []byte("sub_2"), 1)

	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(tampered))
	req.Header.Set("X-Razorpay-Signature", signature)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svcMock.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock), testSecret)

	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(activatedBody(t)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_MissingSecret(t *testing.T) {
	svcMock := new(ServiceMock)
	handler := New(newNoopLogger(), svcMock, "")

	body := activatedBody(t)
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign("", body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svcMock.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock), testSecret)

	body := []byte("not a json")
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign(testSecret, body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_UnknownEventStillOk(t *testing.T) {
	svcMock := new(ServiceMock)
	svcMock.On("ApplyEvent", mock.Anything, mock.Anything).Return(nil).Once()
	handler := New(newNoopLogger(), svcMock, testSecret)

	body, err := json.Marshal(map[string]any{"event": "payment.captured"})
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", sign(testSecret, body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
