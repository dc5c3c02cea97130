package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-agent/internal/fetch"
)

var fetchCommand = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a job posting URL and print the extracted content",
	Long:  "Fetches a job posting with the resilient fetcher and prints the extracted text. Useful for checking what the research stage will see before running the full pipeline.",
	Args:  cobra.ExactArgs(1),
	RunE:  fetchJobCmd,
}

var (
	fetchUseBrowser bool
	fetchVerbose    bool
)

func init() {
	fetchCommand.Flags().BoolVar(&fetchUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	fetchCommand.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(fetchCommand)
}

func fetchJobCmd(_ *cobra.Command, args []string) error {
	opts := fetch.DefaultOptions()
	opts.UseBrowser = fetchUseBrowser
	opts.Verbose = fetchVerbose

	result, err := fetch.New(opts).Fetch(context.Background(), args[0])
	if err != nil {
		return err
	}

	if result.Title != "" {
		fmt.Printf("Title: %s\n\n", result.Title)
	}
	fmt.Println(result.Content)

	if fetchVerbose {
		fmt.Printf("\n[VERBOSE] %d chars extracted from %d bytes of HTML (HTTP %d)\n",
			len(result.Content), len(result.HTML), result.StatusCode)
	}
	return nil
}
