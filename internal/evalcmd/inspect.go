package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Code24x7-R/Photobook/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset records (useful for examining reference metadata)",
		Long: `Inspect records from a parquet or jsonl captioning dataset file.

This command is useful for examining reference titles, captions, albums, and
tags before running an evaluation.`,
		Example: `  # Inspect first 5 records interactively
  photobook eval inspect --dataset ./captions.jsonl --limit 5 --interactive

  # Inspect all records (no limit)
  photobook eval inspect --dataset ./captions.parquet --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			// Create a context that gets canceled on an interrupt signal (Ctrl+C)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop() // Ensure the signal handler is cleaned up

			return executeInspect(ctx, datasetPath, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, datasetPath string, limit int, interactive bool) error {
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.CaptionRecord
	var err error

	if limit > 0 {
		records, err = loader.LoadSample(limit)
	} else {
		records, err = loader.Load()
	}

	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Printf("Loaded %d records from %s\n", len(records), datasetPath)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for i, record := range records {
		// Check for context cancellation (e.g., Ctrl+C) at the start of each iteration
		select {
		case <-ctx.Done():
			fmt.Println("\nInspection interrupted.")
			return nil // Return nil for a clean exit
		default:
			// Continue processing the record
		}

		fmt.Printf("RECORD %d/%d\n", i+1, len(records))
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("ID:         %s\n", record.ID)
		fmt.Printf("Title:      %s\n", record.Title)
		fmt.Printf("Caption:    %s\n", record.Caption)
		fmt.Printf("Album:      %s\n", record.Album)
		fmt.Printf("Tags:       %s\n", strings.Join(record.Tags, ", "))

		if record.ImagePath != "" {
			fmt.Printf("Image Path: %s\n", record.ImagePath)
			if _, err := os.Stat(record.ImagePath); err != nil {
				fmt.Printf("            (missing on disk)\n")
			}
		}
		if record.ImageURL != "" {
			fmt.Printf("Image URL:  %s\n", record.ImageURL)
		}

		fmt.Println()

		if interactive {
			fmt.Print("Press Enter to continue to next record (or Ctrl+C to quit)...")

			// Channel to signal user input
			inputCh := make(chan struct{})
			// Goroutine to wait for Enter key
			go func() {
				_, _ = reader.ReadString('\n')
				close(inputCh)
			}()

			// Wait for either user input (Enter) or context cancellation (Ctrl+C)
			select {
			case <-ctx.Done():
				// Context was canceled
				fmt.Println("\nInspection interrupted.")
				return nil // Clean exit
			case <-inputCh:
				// User pressed Enter
				fmt.Println()
			}
		} else {
			fmt.Println()
		}
	}

	return nil
}
