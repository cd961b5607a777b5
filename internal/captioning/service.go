package captioning

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Code24x7-R/Photobook/internal/gemini"
	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/ollama"
	"github.com/Code24x7-R/Photobook/internal/openai"
	"github.com/Code24x7-R/Photobook/internal/providers"
)

// Service generates titles, captions, album names, and tags for photos
type Service struct {
	provider    string
	model       string
	temperature float64
	registry    map[string]providers.Provider
}

// NewService creates a captioning service for the given provider.
// Empty arguments fall back to environment variables, then package defaults.
func NewService(provider, model string, temperature float64) *Service {
	if provider == "" {
		provider = os.Getenv("PHOTOBOOK_PROVIDER")
		if provider == "" {
			provider = "gemini"
		}
	}

	s := &Service{
		provider:    provider,
		model:       model,
		temperature: temperature,
		registry: map[string]providers.Provider{
			"gemini": gemini.New(),
			"openai": openai.New(),
			"ollama": ollama.New(),
		},
	}

	if s.model == "" {
		s.model = defaultModel(provider)
	}
	return s
}

// Provider returns the configured provider name
func (s *Service) Provider() string {
	return s.provider
}

// Model returns the configured model name
func (s *Service) Model() string {
	return s.model
}

// Describe generates metadata for one photo and validates the response shape
func (s *Service) Describe(ctx context.Context, image providers.Image) (models.Enrichment, error) {
	var empty models.Enrichment

	p, ok := s.registry[s.provider]
	if !ok {
		return empty, fmt.Errorf("unsupported provider: %s", s.provider)
	}

	config := providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      buildCaptionPrompt(),
	}

	raw, err := p.Describe(ctx, config, image)
	if err != nil {
		return empty, err
	}

	enrichment, err := ParseEnrichment(raw)
	if err != nil {
		return empty, err
	}

	slog.Debug("Generated photo metadata", "provider", s.provider, "model", s.model, "album", enrichment.Album, "tags", len(enrichment.Tags))
	return enrichment, nil
}

// register swaps in a provider implementation, used by tests
func (s *Service) register(name string, p providers.Provider) {
	s.registry[name] = p
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-1.5-flash"
		}
		return model
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "llava:13b"
		}
		return model
	default:
		return ""
	}
}
