package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Code24x7-R/Photobook/internal/eval/results"
	"github.com/spf13/cobra"
)

// scoredFields is the column order for CSV output and the field order for
// text output
var scoredFields = []string{"title", "caption", "album", "tags"}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report from saved evaluation results",
		Long: `Generate a report from a YAML results file written by a previous
"photobook eval run".`,
		Example: `  # Text report
  photobook eval report --results evals/gemini-1.5-flash-2026-08-30_12-00-00.yaml

  # CSV for a spreadsheet
  photobook eval report --results evals/latest.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resultsPath == "" {
				return fmt.Errorf("--results is required")
			}
			return executeReport(resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to a YAML results file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, or csv)")

	_ = cmd.MarkFlagRequired("results")

	return cmd
}

func executeReport(resultsPath, format string) error {
	// Load results
	spec, err := results.LoadFromYAML(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(spec)
	case "json":
		return printJSONReport(spec)
	case "csv":
		return printCSVReport(spec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(spec *results.EvalSpec) error {
	fmt.Println("========================================")
	fmt.Printf("Captioning Evaluation Report\n")
	fmt.Println("========================================")
	fmt.Printf("Provider:  %s\n", spec.Config.Provider)
	fmt.Printf("Model:     %s\n", spec.Config.Model)
	fmt.Printf("Dataset:   %s\n", spec.Config.DatasetPath)
	fmt.Printf("Timestamp: %s\n", spec.Config.Timestamp)
	fmt.Println()

	// Print summary
	printReportSummary(spec)

	// Print detailed results
	fmt.Println("\nDetailed Results:")
	fmt.Println("========================================")

	for i, result := range spec.Results {
		fmt.Printf("\n[%d] Record ID: %s\n", i+1, result.Identifier)
		fmt.Printf("  Overall Score: %.2f%%\n", result.OverallScore*100)

		fmt.Println("  Field Scores:")
		for _, field := range scoredFields {
			if score, ok := result.FieldScores[field]; ok {
				fmt.Printf("    %s: %.2f%%\n", field, score*100)
			}
		}

		// Show generated values for low-scoring records
		if result.OverallScore < 0.8 {
			fmt.Println("  Generated vs Reference:")
			fmt.Printf("    Reference Title: %s\n", truncate(result.Title, 80))
			fmt.Printf("    Generated Title: %s\n", truncate(result.GeneratedTitle, 80))
			fmt.Printf("    Generated Album: %s\n", result.GeneratedAlbum)
			fmt.Printf("    Generated Tags:  %s\n", strings.Join(result.GeneratedTags, ", "))
		}
	}

	return nil
}

func printReportSummary(spec *results.EvalSpec) {
	if len(spec.Results) == 0 {
		fmt.Println("No successful evaluations in results file.")
		return
	}

	var scores []float64
	fieldScores := make(map[string][]float64)

	for _, result := range spec.Results {
		scores = append(scores, result.OverallScore)
		for field, score := range result.FieldScores {
			fieldScores[field] = append(fieldScores[field], score)
		}
	}

	var total float64
	for _, score := range scores {
		total += score
	}
	average := total / float64(len(scores))

	sort.Float64s(scores)
	mid := len(scores) / 2
	median := scores[mid]
	if len(scores)%2 == 0 {
		median = (scores[mid-1] + scores[mid]) / 2
	}

	fmt.Println("Summary:")
	fmt.Printf("  Records:       %d\n", len(spec.Results))
	fmt.Printf("  Average Score: %.2f%%\n", average*100)
	fmt.Printf("  Median Score:  %.2f%%\n", median*100)
	fmt.Printf("  Min Score:     %.2f%%\n", scores[0]*100)
	fmt.Printf("  Max Score:     %.2f%%\n", scores[len(scores)-1]*100)
	fmt.Println()
	fmt.Println("  Field Accuracies:")

	// Sort fields for consistent output
	var fields []string
	for field := range fieldScores {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		var fieldTotal float64
		for _, score := range fieldScores[field] {
			fieldTotal += score
		}
		fmt.Printf("    %s: %.2f%%\n", field, fieldTotal/float64(len(fieldScores[field]))*100)
	}
}

func printJSONReport(spec *results.EvalSpec) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}

func printCSVReport(spec *results.EvalSpec) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	// Write header
	header := []string{"ID", "Overall Score"}
	for _, field := range scoredFields {
		header = append(header, "Field_"+field)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	// Write rows
	for _, result := range spec.Results {
		row := []string{
			result.Identifier,
			fmt.Sprintf("%.4f", result.OverallScore),
		}

		for _, field := range scoredFields {
			if score, ok := result.FieldScores[field]; ok {
				row = append(row, fmt.Sprintf("%.4f", score))
			} else {
				row = append(row, "0")
			}
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
