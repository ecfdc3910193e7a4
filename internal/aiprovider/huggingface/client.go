// Package huggingface реализует клиент inference-API синтеза изображений
// (stable-diffusion-xl). Результат возвращается как data URI в base64,
// готовый к сохранению в записи генерации.
package huggingface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIURL = "https://api-inference.huggingface.co"
	modelPath     = "/models/stabilityai/stable-diffusion-xl-base-1.0"
)

// Фиксированные параметры холста и диффузии.
const (
	imageWidth    = 1024
	imageHeight   = 576
	inferenceSteps = 30
	guidanceScale  = 8.0
)

// promptSuffix — фиксированный хвост запроса, задающий стиль и качество превью.
const promptSuffix = ", photorealistic, high quality, clear and sharp, professional product photography, studio lighting, clean white background, product isolated, no text on screen, no UI elements, no interface, just the product itself, vibrant colors, 16:9 aspect ratio, engaging composition, commercial photography style"

// negativePrompt — фиксированный список исключений, отсекающий типовые артефакты диффузии.
const negativePrompt = "blurry, low quality, pixelated, grainy, dark, underexposed, overexposed, cartoon, anime, drawing, sketch, painting, abstract, distorted, deformed, ugly, bad anatomy, bad proportions, extra limbs, missing limbs, mutated hands, poorly drawn hands, poorly drawn face, mutation, deformed, cloned face, disfigured, out of frame, extra limbs, bad anatomy, gross proportions, malformed limbs, missing arms, missing legs, extra arms, extra legs, mutated hands, fused fingers, too many fingers, long neck, cross-eyed, mutated, text, watermark, signature, logo, screen, display, interface, UI, app, software, menu, button, icon, notification, status bar, home screen, lock screen, wallpaper, background image, wood, table, surface, hands, fingers, people, faces"

// Client — клиент API синтеза изображений.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент. Пустой apiURL заменяется адресом по умолчанию.
func NewClient(apiKey, apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NegativePrompt    string  `json:"negative_prompt"`
}

// GenerateImage синхронно запрашивает синтез изображения по базовому запросу.
// К запросу добавляется фиксированный стилевой хвост, негативный список
// передается параметром. Бинарный ответ перекодируется в data URI base64.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	const op = "huggingface.GenerateImage"

	reqBody := inferenceRequest{
		Inputs: prompt + promptSuffix,
		Parameters: inferenceParameters{
			Width:             imageWidth,
			Height:            imageHeight,
			NumInferenceSteps: inferenceSteps,
			GuidanceScale:     guidanceScale,
			NegativePrompt:    negativePrompt,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+modelPath, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes), nil
}
