package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/internal/analysis/sentiment"
	"github.com/seenimoa/newspulse/internal/config"
	"github.com/seenimoa/newspulse/internal/datasource"
	"github.com/seenimoa/newspulse/internal/llm"
	"github.com/seenimoa/newspulse/internal/ner"
	"github.com/seenimoa/newspulse/internal/pipeline"
	"github.com/seenimoa/newspulse/internal/report"
	"github.com/seenimoa/newspulse/internal/resolver"
	"github.com/seenimoa/newspulse/internal/tickers"
	"github.com/seenimoa/newspulse/pkg/models"
	"github.com/seenimoa/newspulse/pkg/utils"
)

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect news, resolve tickers and report sentiment",
	Long: `Collect articles from the configured sources for the lookback window,
resolve the tickers each article mentions, score its sentiment and write the
per-ticker report. The top bullish and bearish tickers are printed when done.

Examples:
  newspulse run --days 3 --sources yahoo,reuters
  newspulse run --output data/output/report.html
  newspulse run --format sqlite --output data/output/history.db`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("days", 1, "number of days to look back")
	cmd.Flags().StringSlice("sources", nil, "news sources (repeatable or comma separated)")
	cmd.Flags().String("tickers-file", "", "path to ticker CSV (ticker,company_name)")
	cmd.Flags().StringP("output", "o", "", "report path")
	cmd.Flags().String("format", "", "report format: csv, json, html, sqlite (default: from extension)")
	cmd.Flags().Bool("no-blend", false, "disable financial-term blending")
	cmd.Flags().Bool("strict", false, "fail on a malformed tickers file or when every source fails")
}

// applyRunFlags copies explicitly set flags over the loaded config.
func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("days") {
		c.Sources.Days, _ = flags.GetInt("days")
	}
	if flags.Changed("sources") {
		c.Sources.Names, _ = flags.GetStringSlice("sources")
	}
	if flags.Changed("tickers-file") {
		c.Tickers.File, _ = flags.GetString("tickers-file")
	}
	if flags.Changed("output") {
		c.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		c.Output.Format, _ = flags.GetString("format")
	}
	if noBlend, _ := flags.GetBool("no-blend"); noBlend {
		c.Sentiment.Blend = false
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	applyRunFlags(cmd, cfg)
	strict, _ := cmd.Flags().GetBool("strict")

	if err := cfg.Validate(); err != nil {
		return &models.ConfigError{Path: "config", Err: err}
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return &models.ConfigError{Path: "output.format", Err: err}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	reg, err := tickers.Load(cfg.Tickers.File, logger)
	if err != nil && strict {
		return err
	}

	scorer, err := buildScorer(ctx, logger)
	if err != nil {
		return err
	}

	scrapers, err := datasource.Sources(cfg.Sources.Names, datasource.SourceConfig{
		Fetcher: datasource.FetcherConfig{
			Timeout:    cfg.Scraper.Timeout(),
			RatePerSec: cfg.Scraper.RatePerSec,
			Burst:      cfg.Scraper.Burst,
			UserAgent:  cfg.Scraper.UserAgent,
		},
		ContentCacheTTL: cfg.Scraper.ContentCacheTTL(),
	}, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		Scrapers: scrapers,
		Resolver: resolver.New(reg, recognizer(reg), logger),
		Scorer:   scorer,
		Logger:   logger,
		Workers:  cfg.Sentiment.Workers,
	})

	// Fail on an unusable output path before spending time scraping.
	if err := report.EnsureDir(cfg.Output.Path); err != nil {
		return err
	}

	window := pipeline.LookbackWindow(time.Now(), cfg.Sources.Days)
	res, err := p.Run(ctx, window)
	if err != nil {
		return err
	}
	if strict && len(res.Sources) > 0 && failedSources(res.Sources) == len(res.Sources) {
		return fmt.Errorf("all %d sources failed", len(res.Sources))
	}

	r := report.Report{
		RunID:       res.RunID,
		GeneratedAt: time.Now(),
		WindowStart: window.Start,
		WindowEnd:   window.End,
		Rows:        res.Rows,
	}
	if err := report.Write(cfg.Output.Path, format, r); err != nil {
		logger.Error().Err(err).Str("path", cfg.Output.Path).Msg("Error saving results")
		return err
	}
	logger.Info().
		Str("path", cfg.Output.Path).
		Int("tickers", len(res.Rows)).
		Str("elapsed", report.FormatDuration(res.Elapsed)).
		Msg("Results saved")

	fmt.Fprintf(cmd.OutOrStdout(), "\nNews window: %s to %s (%d articles, %d relevant)\n",
		utils.FormatDate(window.Start), utils.FormatDate(window.End), res.Collected, res.Relevant)
	if format == report.FormatSQLite || (format == "" && report.InferFormat(cfg.Output.Path) == report.FormatSQLite) {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s stored; view it with: newspulse history %s --db %s\n", res.RunID, res.RunID, cfg.Output.Path)
	}
	return report.WriteSummary(cmd.OutOrStdout(), res.Rows)
}

func failedSources(results []datasource.SourceResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// recognizer returns the organization recognizer selected by tickers.ner.
func recognizer(reg *tickers.Registry) ner.Recognizer {
	if cfg.Tickers.NER == "none" {
		return ner.Nop{}
	}
	return ner.Heuristic{Known: reg.CompanyVariants()}
}

// buildScorer assembles the sentiment model chain selected by
// sentiment.model. The LLM model falls back to the lexicon per chunk, and
// to the lexicon entirely when no provider can be built.
func buildScorer(ctx context.Context, logger arbor.ILogger) (*sentiment.Scorer, error) {
	lexicon := sentiment.NewLexiconModel()
	var model sentiment.Model = lexicon

	if cfg.Sentiment.Model == config.ModelGemini {
		def := llm.DefaultProviderConfig()
		provider, err := llm.NewGeminiProvider(ctx, llm.ProviderConfig{
			APIKey:      cfg.Sentiment.GeminiKey,
			Model:       cfg.Sentiment.GeminiModel,
			Temperature: cfg.Sentiment.Temperature,
			MaxTokens:   def.MaxTokens,
			Timeout:     time.Duration(cfg.Sentiment.TimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini model unavailable, using lexicon model")
		} else {
			model = sentiment.NewLLMModel(provider, lexicon, logger)
		}
	}

	logger.Debug().Str("model", model.Name()).Bool("blend", cfg.Sentiment.Blend).Msg("Sentiment scorer ready")
	return sentiment.NewScorer(model, logger,
		sentiment.WithBlend(cfg.Sentiment.Blend),
		sentiment.WithChunkSize(cfg.Sentiment.ChunkSize),
	), nil
}
