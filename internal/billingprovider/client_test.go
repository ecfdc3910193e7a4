package billingprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", username)
		assert.Equal(t, "rzp_test_secret", password)

		var req CreateSubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plan_pro_monthly", req.PlanID)
		assert.Equal(t, 12, req.TotalCount)

		_ = json.NewEncoder(w).Encode(Subscription{
			ID:     "sub_123",
			PlanID: req.PlanID,
			Status: "created",
		})
	}))
	defer srv.Close()

	client := NewClient("rzp_test_key", "rzp_test_secret", srv.URL)

	sub, err := client.CreateSubscription(context.Background(), "plan_pro_monthly")
	require.NoError(t, err)
	assert.Equal(t, "sub_123", sub.ID)
	assert.Equal(t, "created", sub.Status)
}

func TestCreateSubscriptionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient("key", "secret", srv.URL)

	_, err := client.CreateSubscription(context.Background(), "unknown_plan")
	assert.Error(t, err)
}
