package huggingface

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	fakePNG := []byte{0x89, 0x50, 0x4E, 0x47}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, modelPath, r.URL.Path)
		assert.Equal(t, "Bearer hf-test", r.Header.Get("Authorization"))

		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.HasPrefix(req.Inputs, "YouTube thumbnail for My Video"))
		assert.True(t, strings.HasSuffix(req.Inputs, promptSuffix))
		assert.Equal(t, 1024, req.Parameters.Width)
		assert.Equal(t, 576, req.Parameters.Height)
		assert.Equal(t, 30, req.Parameters.NumInferenceSteps)
		assert.InDelta(t, 8.0, req.Parameters.GuidanceScale, 0.001)
		assert.NotEmpty(t, req.Parameters.NegativePrompt)

		_, _ = w.Write(fakePNG)
	}))
	defer srv.Close()

	client := NewClient("hf-test", srv.URL, time.Second)

	got, err := client.GenerateImage(context.Background(), "YouTube thumbnail for My Video")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(fakePNG), got)
}

func TestGenerateImageUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient("hf-test", srv.URL, time.Second)

	_, err := client.GenerateImage(context.Background(), "prompt")
	assert.Error(t, err)
}
