package current

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/creator-credits/internal/http/middlewarectx"
	"github.com/magabrotheeeer/creator-credits/internal/models"
	"github.com/magabrotheeeer/creator-credits/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetCurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCurrentHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		uid            any
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
	}{
		{
			name: "success",
			uid:  "uid-1",
			mockUser: &models.User{
				UUID: "uid-1", Username: "user1", Email: "user1@example.com",
				PlanType: models.PlanPro, CreditsLeft: 42},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing uid in context",
			uid:            nil,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "user not found",
			uid:            "uid-ghost",
			mockErr:        auth.ErrUserNotFound,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				svcMock.On("GetCurrentUser", mock.Anything, tt.uid).
					Return(tt.mockUser, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), svcMock)

			req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
			if tt.uid != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UID, tt.uid))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantStatusCode == http.StatusOK {
				var got map[string]any
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				data := got["data"].(map[string]any)
				assert.Equal(t, "user1", data["username"])
				assert.Equal(t, "pro", data["plan_type"])
				assert.Equal(t, float64(42), data["credits_left"])
			}
			svcMock.AssertExpectations(t)
		})
	}
}
