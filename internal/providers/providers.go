package providers

import (
	"context"
)

// Config represents the configuration for one request to an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Image is the photo payload sent alongside the prompt
type Image struct {
	Data     []byte
	MIMEType string
}

// Provider defines the interface for a vision-capable LLM provider
type Provider interface {
	Describe(ctx context.Context, config Config, image Image) (string, error)
}
