package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CheckerMock struct {
	mock.Mock
}

func (m *CheckerMock) CheckDatabaseReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	t.Run("database ready", func(t *testing.T) {
		checker := new(CheckerMock)
		checker.On("CheckDatabaseReady", mock.Anything).Return(nil).Once()
		handler := New(newNoopLogger(), checker)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database not ready", func(t *testing.T) {
		checker := new(CheckerMock)
		checker.On("CheckDatabaseReady", mock.Anything).Return(errors.New("no users table")).Once()
		handler := New(newNoopLogger(), checker)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
