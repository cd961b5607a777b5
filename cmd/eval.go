package cmd

import (
	"github.com/Code24x7-R/Photobook/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Captioning evaluation tools",
		Long: `Evaluation tools for measuring the quality of LLM-generated photo metadata.

Supports fetching reference images for datasets that only carry URLs, running
evaluations against reference titles, captions, albums, and tags, inspecting
dataset records, and generating detailed comparison reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewFetchCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
