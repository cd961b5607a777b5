package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Code24x7-R/Photobook/internal/providers"
)

// Ollama is a provider for locally hosted vision models
type Ollama struct {
	httpClient *http.Client
	retrier    providers.Retrier
}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWithClient returns a provider using the supplied HTTP client and retrier (used in tests)
func NewWithClient(client *http.Client, retrier providers.Retrier) *Ollama {
	return &Ollama{httpClient: client, retrier: retrier}
}

// Describe generates photo metadata for the given image using Ollama
func (o *Ollama) Describe(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	url := ollamaURL + "/api/generate"

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  config.Model,
		"prompt": config.Prompt,
		"images": []string{base64.StdEncoding.EncodeToString(image.Data)},
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	var content string
	err = o.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(requestBody))
		if err != nil {
			return fmt.Errorf("failed to create new request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			retryAfter, _ := providers.ParseRetryAfter(resp.Header.Get("Retry-After"))
			return &providers.StatusError{
				StatusCode: resp.StatusCode,
				Body:       string(body),
				RetryAfter: retryAfter,
			}
		}

		var response struct {
			Response string `json:"response"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}

		content = response.Response
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}
