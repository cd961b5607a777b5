package openai

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

// OpenAI is a provider for OpenAI vision models
type OpenAI struct {
	httpClient *http.Client
	retrier    providers.Retrier
}

// New returns a new OpenAI provider
func New() *OpenAI {
	return &OpenAI{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithClient returns a provider using the supplied HTTP client and retrier (used in tests)
func NewWithClient(client *http.Client, retrier providers.Retrier) *OpenAI {
	return &OpenAI{httpClient: client, retrier: retrier}
}

// Describe generates photo metadata for the given image using OpenAI
func (o *OpenAI) Describe(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	url := os.Getenv("OPENAI_BASE_URL")
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	url += "/chat/completions"

	dataURL := "data:" + image.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": config.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": config.Prompt},
					{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
				},
			},
		},
		"max_tokens":      1000,
		"temperature":     config.Temperature,
		"response_format": map[string]string{"type": "json_object"},
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
		req.Header.Set("Authorization", "Bearer "+apiKey)

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
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}

		if len(response.Choices) == 0 {
			return fmt.Errorf("no choices returned from OpenAI")
		}

		content = response.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}
