package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/Code24x7-R/Photobook/internal/captioning"
	"github.com/Code24x7-R/Photobook/internal/providers"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// captionOutput is one captioned file in the command's output
type captionOutput struct {
	File    string   `json:"file" yaml:"file"`
	Title   string   `json:"title" yaml:"title"`
	Caption string   `json:"caption" yaml:"caption"`
	Album   string   `json:"album" yaml:"album"`
	Tags    []string `json:"tags" yaml:"tags"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newCaptionCmd() *cobra.Command {
	var provider string
	var model string
	var temperature float64
	var format string

	cmd := &cobra.Command{
		Use:   "caption [files...]",
		Short: "Caption local image files without starting the server",
		Long: `Generates a title, caption, album grouping, and tags for one or more local
image files and prints the results to stdout.`,
		Example: `  # Caption a photo with the default provider
  photobook caption vacation.jpg

  # Caption several photos with OpenAI, JSON output
  photobook caption --provider openai --format json *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
			}

			service := captioning.NewService(provider, model, temperature)

			results := make([]captionOutput, 0, len(args))
			for _, path := range args {
				results = append(results, captionFile(cmd, service, path))
			}

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(results)
			default:
				data, err := yaml.Marshal(results)
				if err != nil {
					return fmt.Errorf("failed to marshal results: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.2, "Sampling temperature")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml or json)")

	return cmd
}

func captionFile(cmd *cobra.Command, service *captioning.Service, path string) captionOutput {
	out := captionOutput{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read file: %v", err)
		return out
	}

	mimeType := http.DetectContentType(data)
	enrichment, err := service.Describe(cmd.Context(), providers.Image{Data: data, MIMEType: mimeType})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Title = enrichment.Title
	out.Caption = enrichment.Caption
	out.Album = enrichment.Album
	out.Tags = enrichment.Tags
	return out
}
