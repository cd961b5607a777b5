package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Code24x7-R/Photobook/internal/captioning"
	"github.com/Code24x7-R/Photobook/internal/eval/dataset"
	"github.com/Code24x7-R/Photobook/internal/eval/metrics"
	resultsutil "github.com/Code24x7-R/Photobook/internal/eval/results"
	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/providers"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var outputJSON string
	var outputReport string
	var sampleSize int
	var provider string
	var model string
	var concurrency int
	var cacheDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a captioning evaluation against a reference dataset",
		Long: `Evaluate caption generation quality against a reference dataset.

Each dataset record pairs a photo with the title, caption, album, and tags a
good description should contain. The evaluation generates metadata for every
photo and scores each field against the reference (normalized similarity for
title/caption/album, set-overlap F1 for tags).`,
		Example: `  # Evaluate 10 records with Gemini
  photobook eval run --dataset ./captions.jsonl --sample 10 --provider gemini

  # Evaluate 100 records with OpenAI, 4 at a time
  photobook eval run --dataset ./captions.parquet --sample 100 --provider openai --concurrency 4

  # Evaluate the full dataset
  photobook eval run --dataset ./captions.jsonl --sample -1 --provider ollama`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			// Check if dataset file exists
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			if concurrency < 1 {
				concurrency = 1
			}

			return executeRun(cmd.Context(), datasetPath, outputJSON, outputReport, sampleSize, provider, model, concurrency, cacheDir, verbose)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().StringVar(&outputJSON, "output-json", "eval_results.json", "Path to output JSON results file")
	cmd.Flags().StringVar(&outputReport, "output-report", "eval_report.txt", "Path to output detailed report file")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&provider, "provider", "gemini", "LLM provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 3, "Number of photos to process in parallel")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", dataset.DefaultCacheDir, "Cache directory for downloaded reference images")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(ctx context.Context, datasetPath, outputJSON, outputReport string, sampleSize int, provider, model string, concurrency int, cacheDir string, verbose bool) error {
	// Set up logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("Starting captioning evaluation",
		"dataset", datasetPath,
		"sample_size", sampleSize,
		"provider", provider,
		"model", model,
		"concurrency", concurrency)

	// Load dataset
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.CaptionRecord
	var err error

	if sampleSize > 0 {
		slog.Info("Loading sample from dataset", "limit", sampleSize)
		records, err = loader.LoadSample(sampleSize)
	} else {
		slog.Info("Loading full dataset")
		records, err = loader.Load()
	}

	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "records", len(records))

	// Initialize captioning service and image fetcher
	service := captioning.NewService(provider, model, 0.2)
	fetcher := dataset.NewFetcher(dataset.FetchConfig{CacheDir: cacheDir})

	// Process records with concurrency control
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan metrics.EvaluationResult, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.CaptionRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))

			resultsChan <- evaluateRecord(ctx, record, service, fetcher)
		}(i, record)
	}

	// Wait for all goroutines to finish
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	results := make([]metrics.EvaluationResult, 0, len(records))
	for result := range resultsChan {
		results = append(results, result)
	}

	// Aggregate results
	slog.Info("Aggregating results")
	aggregated := metrics.AggregateEvaluationResults(results, service.Provider(), service.Model())

	// Print summary
	aggregated.PrintSummary()

	// Save results
	slog.Info("Saving results", "json", outputJSON, "report", outputReport)

	if err := aggregated.SaveToJSON(outputJSON); err != nil {
		fmt.Printf("Warning: Failed to save JSON results: %v\n", err)
	} else {
		fmt.Printf("\nResults saved to: %s\n", outputJSON)
	}

	if err := aggregated.SaveDetailedReport(outputReport); err != nil {
		fmt.Printf("Warning: Failed to save detailed report: %v\n", err)
	} else {
		fmt.Printf("Detailed report saved to: %s\n", outputReport)
	}

	// Save results in YAML format
	yamlPath, err := resultsutil.SaveToYAML(service.Provider(), service.Model(), datasetPath, sampleSize, aggregated.Results)
	if err != nil {
		fmt.Printf("Warning: Failed to save YAML results: %v\n", err)
	} else {
		fmt.Printf("Evaluation results saved to: %s\n", yamlPath)
		fmt.Printf("\nGenerate a report with:\n  photobook eval report --results %s\n", yamlPath)
	}

	slog.Info("Evaluation complete")
	return nil
}

// evaluateRecord evaluates a single dataset record
func evaluateRecord(ctx context.Context, record dataset.CaptionRecord, service *captioning.Service, fetcher *dataset.Fetcher) metrics.EvaluationResult {
	startTime := time.Now()

	result := metrics.EvaluationResult{
		ID:    record.ID,
		Title: record.Title,
	}

	// Make sure the photo exists locally
	imagePath, err := fetcher.FetchImage(&record)
	if err != nil {
		result.Error = fmt.Sprintf("no image available: %v", err)
		result.ProcessingTime = time.Since(startTime)
		return result
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read image: %v", err)
		result.ProcessingTime = time.Since(startTime)
		return result
	}

	// Generate metadata for the photo
	generated, err := service.Describe(ctx, providers.Image{Data: data, MIMEType: http.DetectContentType(data)})
	if err != nil {
		result.Error = fmt.Sprintf("enrichment failed: %v", err)
		result.ProcessingTime = time.Since(startTime)
		return result
	}

	result.Generated = generated
	result.ProcessingTime = time.Since(startTime)

	slog.Debug("Generated metadata",
		"id", record.ID,
		"title", generated.Title,
		"album", generated.Album)

	// Score each field against the reference
	expected := models.Enrichment{
		Title:   record.Title,
		Caption: record.Caption,
		Album:   record.Album,
		Tags:    record.Tags,
	}
	result.Comparison = metrics.CompareCaptions(generated, expected)

	slog.Info("Comparison complete",
		"id", record.ID,
		"overall_score", result.Comparison.OverallScore,
		"title_score", result.Comparison.TitleMatch.Score,
		"tags_score", result.Comparison.TagsMatch.Score)

	return result
}
