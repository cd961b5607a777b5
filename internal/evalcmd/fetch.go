package evalcmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Code24x7-R/Photobook/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command for downloading reference images
func NewFetchCmd() *cobra.Command {
	var datasetPath string
	var cacheDir string
	var sampleSize int
	var force bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download reference images for a captioning dataset",
		Long: `Download reference images for dataset records that only carry an image URL.

Images are cached keyed by record id so an evaluation run can read them from
local disk. Records that already point at an existing local file are skipped.`,
		Example: `  # Fetch images for the first 10 records
  photobook eval fetch --dataset ./captions.jsonl --sample 10

  # Fetch images for every record, re-downloading cached ones
  photobook eval fetch --dataset ./captions.parquet --sample -1 --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			// Check if dataset file exists
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			return executeFetch(datasetPath, cacheDir, sampleSize, force, verbose)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", dataset.DefaultCacheDir, "Cache directory for downloaded images")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to process (-1 for all)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-download images that are already cached")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeFetch(datasetPath, cacheDir string, sampleSize int, force, verbose bool) error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("Starting image fetch", "dataset", datasetPath, "cache", cacheDir, "sample", sampleSize)

	// Load dataset
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.CaptionRecord
	var err error

	if sampleSize > 0 {
		records, err = loader.LoadSample(sampleSize)
	} else {
		records, err = loader.Load()
	}

	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Loaded dataset records", "count", len(records))

	fetcher := dataset.NewFetcher(dataset.FetchConfig{
		CacheDir:      cacheDir,
		ForceDownload: force,
	})

	successCount := 0
	skipCount := 0
	errorCount := 0

	for i := range records {
		record := &records[i]
		slog.Info("Processing record", "index", i+1, "total", len(records), "id", record.ID)

		if record.HasLocalImage() && !force {
			if _, err := os.Stat(record.ImagePath); err == nil {
				slog.Debug("Local image already exists, skipping", "id", record.ID, "path", record.ImagePath)
				skipCount++
				continue
			}
		}

		if record.ImageURL == "" {
			slog.Warn("No image URL for record", "id", record.ID)
			skipCount++
			continue
		}

		path, err := fetcher.FetchImage(record)
		if err != nil {
			slog.Warn("Failed to fetch image", "id", record.ID, "error", err)
			errorCount++
			continue
		}

		slog.Debug("Image ready", "id", record.ID, "path", path)
		successCount++
	}

	fmt.Printf("\nImage fetch complete!\n")
	fmt.Printf("  Downloaded: %d\n", successCount)
	fmt.Printf("  Skipped (local copy or no URL): %d\n", skipCount)
	fmt.Printf("  Errors: %d\n", errorCount)
	fmt.Printf("  Cache location: %s\n", cacheDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Run evaluation: photobook eval run --dataset %s --provider gemini\n", datasetPath)

	return nil
}
