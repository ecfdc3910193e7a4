package list

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Generation, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Generation), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestListHandler_ServeHTTP(t *testing.T) {
	t.Run("default limit and offset", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("List", mock.Anything, "uid-1", 10, 0).
			Return([]*models.Generation{{ID: 2}, {ID: 1}}, nil).Once()
		handler := New(newNoopLogger(), svcMock)

		req := httptest.NewRequest(http.MethodGet, "/generations/list", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UID, "uid-1"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Equal(t, float64(2), data["list_count"])
		svcMock.AssertExpectations(t)
	})

	t.Run("explicit limit and offset", func(t *testing.T) {
		svcMock := new(ServiceMock)
		svcMock.On("List", mock.Anything, "uid-1", 5, 10).
			Return([]*models.Generation{}, nil).Once()
		handler := New(newNoopLogger(), svcMock)

		req := httptest.NewRequest(http.MethodGet, "/generations/list?limit=5&offset=10", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UID, "uid-1"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svcMock.AssertExpectations(t)
	})

	t.Run("unauthorized without uid", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		req := httptest.NewRequest(http.MethodGet, "/generations/list", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
