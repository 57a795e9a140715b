// newspulse: financial news ticker extraction and sentiment aggregation.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/internal/config"
	"github.com/seenimoa/newspulse/internal/datasource"
	"github.com/seenimoa/newspulse/internal/logging"
	"github.com/seenimoa/newspulse/internal/report"
	"github.com/seenimoa/newspulse/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for everything else.
func exitCode(err error) int {
	var cerr *models.ConfigError
	if errors.As(err, &cerr) {
		return 2
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "newspulse",
	Short: "Financial news sentiment by ticker",
	Long: `newspulse collects recent financial news, finds the stock tickers each
article mentions, scores the article's sentiment and reports an aggregate
sentiment score per ticker.

Running newspulse without a subcommand is the same as "newspulse run".`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPipeline,
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return &models.ConfigError{Path: configFile, Err: fmt.Errorf("failed to load config: %w", err)}
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(tickersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}

// newLogger builds the run logger from cfg.
func newLogger() (arbor.ILogger, error) {
	logger, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Outputs: cfg.Logging.Outputs,
		FileDir: cfg.Logging.FileDir,
	})
	if err != nil {
		return nil, &models.ConfigError{Path: "logging", Err: err}
	}
	return logger, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "newspulse %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  newspulse status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Time (UTC):    %s\n", time.Now().UTC().Format(time.RFC3339))
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Configuration:")
		fmt.Fprintf(out, "    Sources:       %s (last %d day(s))\n", strings.Join(cfg.Sources.Names, ", "), cfg.Sources.Days)
		fmt.Fprintf(out, "    Known sources: %s\n", strings.Join(datasource.SourceNames(), ", "))
		fmt.Fprintf(out, "    Tickers file:  %s\n", cfg.Tickers.File)
		fmt.Fprintf(out, "    Output:        %s\n", outputDescription())
		fmt.Fprintf(out, "    Sentiment:     %s (blend: %t, chunk: %d, workers: %d)\n",
			cfg.Sentiment.Model, cfg.Sentiment.Blend, cfg.Sentiment.ChunkSize, cfg.Sentiment.Workers)
		fmt.Fprintf(out, "    Scraper:       %.1f req/s, burst %d, timeout %s\n",
			cfg.Scraper.RatePerSec, cfg.Scraper.Burst, cfg.Scraper.Timeout())
		fmt.Fprintf(out, "    Logging:       %s → %s\n", cfg.Logging.Level, strings.Join(cfg.Logging.Outputs, ", "))
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "    Invalid:       %v\n", err)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Fprintf(out, "    %-25s %s\n", k.Name+":", status)
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}

func outputDescription() string {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return cfg.Output.Path + " (invalid format)"
	}
	if format == "" {
		format = report.InferFormat(cfg.Output.Path)
	}
	return fmt.Sprintf("%s (%s)", cfg.Output.Path, format)
}
