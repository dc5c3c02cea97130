package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-agent/internal/analysis"
	"github.com/jonathan/cover-agent/internal/config"
	"github.com/jonathan/cover-agent/internal/drafting"
	"github.com/jonathan/cover-agent/internal/fetch"
	"github.com/jonathan/cover-agent/internal/ingestion"
	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/observability"
	"github.com/jonathan/cover-agent/internal/pipeline"
	"github.com/jonathan/cover-agent/internal/research"
	"github.com/jonathan/cover-agent/internal/session"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full cover letter pipeline end-to-end",
	Long: `Orchestrates the cover letter process: resume analysis -> job research -> letter drafting -> saving.

Configuration can be loaded from a JSON file using --config. Command-line flags override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath string
	runJobURL     string
	runMessage    string
	runResumeDir  string
	runOutputDir  string
	runGeminiKey  string
	runPplxKey    string
	runUseBrowser bool
	runVerbose    bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "Job posting URL (mutually exclusive with --message)")
	runCommand.Flags().StringVarP(&runMessage, "message", "m", "", "Free-form message containing the job URL")
	runCommand.Flags().StringVarP(&runResumeDir, "resume-dir", "r", "", "Directory containing the resume PDF (default: resume)")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Output directory for letters and snapshots (default: cover_letters)")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	runCommand.Flags().StringVar(&runGeminiKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runPplxKey, "perplexity-key", "", "Perplexity API key (optional, defaults to PERPLEXITY_API_KEY env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	jobURL, err := resolveJobURL(cfg)
	if err != nil {
		return err
	}

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (--api-key or GEMINI_API_KEY)")
	}
	if cfg.PerplexityAPIKey == "" {
		return fmt.Errorf("Perplexity API key is required (--perplexity-key or PERPLEXITY_API_KEY)")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	store := session.NewStore()
	fetcher := fetch.New(&fetch.Options{
		Timeout:     fetch.DefaultTimeout,
		MaxAttempts: fetch.DefaultMaxAttempts,
		BackoffBase: fetch.DefaultBackoffBase,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
		Store:       store,
	})

	coordinator := pipeline.NewCoordinator(
		analysis.New(client, cfg.ResumeDir, cfg.Verbose),
		research.New(client, fetcher, research.NewPerplexityClient(cfg.PerplexityAPIKey), cfg.Verbose),
		drafting.New(client, cfg.Verbose),
		pipeline.Options{OutputDir: cfg.OutputDir, Verbose: cfg.Verbose},
	)

	fmt.Printf("Session %s: generating cover letter for %s\n", store.ID(), jobURL)
	state, err := coordinator.Run(ctx, store, jobURL)
	if err != nil {
		return fmt.Errorf("pipeline stopped in state %s: %w", state, err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		if resume, ok := store.Resume(); ok {
			printer.PrintResume(resume)
		}
		if jobResearch, ok := store.JobResearch(); ok {
			printer.PrintJobResearch(jobResearch)
		}
		if letter, ok := store.CoverLetter(); ok {
			printer.PrintCoverLetter(letter)
		}
	}

	fmt.Printf("Text:     %s\n", store.GetString(session.KeySaveStatusText))
	fmt.Printf("PDF:      %s\n", store.GetString(session.KeySaveStatusPDF))
	fmt.Printf("Done.\n")
	return nil
}

// buildConfig layers the configuration sources: the config file is the base,
// explicitly-set CLI flags override it, the environment fills in missing API
// keys, and defaults fill whatever remains.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if runVerbose {
			fmt.Printf("Loaded config from: %s\n", runConfigPath)
		}
	}

	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if cmd.Flags().Changed("message") {
		cfg.Message = runMessage
	}
	if cmd.Flags().Changed("resume-dir") {
		cfg.ResumeDir = runResumeDir
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.GeminiAPIKey = runGeminiKey
	}
	if cmd.Flags().Changed("perplexity-key") {
		cfg.PerplexityAPIKey = runPplxKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	return cfg, cfg.Validate()
}

// resolveJobURL takes the URL directly or extracts it from the free-form
// message.
func resolveJobURL(cfg config.Config) (string, error) {
	if cfg.JobURL != "" {
		return cfg.JobURL, nil
	}
	if cfg.Message == "" {
		return "", fmt.Errorf("a job posting is required: pass --job-url or --message")
	}
	jobURL, err := ingestion.ExtractJobURL(cfg.Message)
	if err != nil {
		return "", fmt.Errorf("could not find a job URL in the message: %w", err)
	}
	return jobURL, nil
}
