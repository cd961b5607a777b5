package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Code24x7-R/Photobook/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Prompt      string  `yaml:"prompt"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier       string             `yaml:"identifier"`
	Title            string             `yaml:"title"`
	GeneratedTitle   string             `yaml:"generatedtitle"`
	GeneratedCaption string             `yaml:"generatedcaption"`
	GeneratedAlbum   string             `yaml:"generatedalbum"`
	GeneratedTags    []string           `yaml:"generatedtags"`
	OverallScore     float64            `yaml:"overallscore"`
	FieldScores      map[string]float64 `yaml:"fieldscores"`
}

// EvalSpec represents the complete evaluation specification
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in evals/ directory
// and returns the written path
func SaveToYAML(provider, model, datasetPath string, sampleSize int, results []metrics.EvaluationResult) (string, error) {
	// Create evals directory
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	// Generate timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	// Create eval spec
	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			Prompt:      "Generate title, caption, album, and tags for a photo",
			Temperature: 0.2,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Results: make([]EvalResult, 0, len(results)),
	}

	// Convert results
	for _, r := range results {
		if r.Error != "" {
			continue // Skip failed evaluations
		}

		evalResult := EvalResult{
			Identifier:       r.ID,
			Title:            r.Title,
			GeneratedTitle:   r.Generated.Title,
			GeneratedCaption: r.Generated.Caption,
			GeneratedAlbum:   r.Generated.Album,
			GeneratedTags:    r.Generated.Tags,
		}

		if r.Comparison != nil {
			evalResult.OverallScore = r.Comparison.OverallScore

			evalResult.FieldScores = make(map[string]float64, len(r.Comparison.FieldLevelScores))
			for field, score := range r.Comparison.FieldLevelScores {
				evalResult.FieldScores[field] = score
			}
		}

		spec.Results = append(spec.Results, evalResult)
	}

	// Generate filename
	filename := fmt.Sprintf("evals/%s-%s.yaml", model, timestamp)

	// Write YAML
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		absPath = filename
	}
	return absPath, nil
}

// LoadFromYAML reads a saved evaluation spec back, used by the report command
func LoadFromYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &spec, nil
}
