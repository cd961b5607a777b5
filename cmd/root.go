package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photobook",
		Short: "Photo captioning tool with AI-generated titles, captions, albums, and tags",
		Long: `Photobook is a browser-based photo captioning tool.

Upload photos and a vision-capable LLM (Gemini, OpenAI, or Ollama) generates a
title, caption, album grouping, and tags for each one. Edit the results,
organize photos into albums, and export the book as a self-contained document.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCaptionCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
