package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, completionModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "My Video", req.Messages[1].Content)

		resp := chatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "SEO-rich description"}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL, time.Second)

	got, err := client.GenerateDescription(context.Background(), "My Video")
	require.NoError(t, err)
	assert.Equal(t, "SEO-rich description", got)
}

func TestGenerateDescriptionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL, time.Second)

	_, err := client.GenerateDescription(context.Background(), "My Video")
	assert.Error(t, err)
}

func TestGenerateDescriptionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL, time.Second)

	_, err := client.GenerateDescription(context.Background(), "My Video")
	assert.Error(t, err)
}
