// Package main provides the entry point for the cover letter agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cover_agent",
	Short: "Cover letter generation pipeline",
	Long:  "cover_agent analyzes a resume PDF, researches a job posting and its company, and drafts a personalized cover letter saved as text and PDF.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
