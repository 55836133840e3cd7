package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.openai.com/v1/audio/transcriptions"

// API transcribes through an OpenAI-compatible Whisper HTTP endpoint.
type API struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

var _ Engine = (*API)(nil)

// APIConfig holds configuration for the HTTP engine.
type APIConfig struct {
	APIKey  string
	BaseURL string // optional, defaults to the OpenAI endpoint
	Model   string // optional, defaults to "whisper-1"
}

// NewAPI creates an HTTP engine. The API key must be non-empty.
func NewAPI(cfg APIConfig) (*API, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("stt: api key required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	return &API{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *API) Model() string { return a.model }

// Transcribe wraps the samples in a WAV container and posts them as
// multipart form data.
func (a *API) Transcribe(ctx context.Context, samples []float32, language string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	wavData := float32ToWAV(samples, SampleRate)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("stt: create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return "", fmt.Errorf("stt: write audio data: %w", err)
	}
	if err := writer.WriteField("model", a.model); err != nil {
		return "", fmt.Errorf("stt: write model field: %w", err)
	}
	// The API rejects "auto"; an absent field means auto-detect.
	if language != "" && language != "auto" {
		if err := writer.WriteField("language", language); err != nil {
			return "", fmt.Errorf("stt: write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("stt: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("stt: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("stt: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stt: api error %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("stt: parse response: %w", err)
	}
	return apiResp.Text, nil
}

func (a *API) Close() error { return nil }
