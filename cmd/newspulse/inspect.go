package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/internal/logging"
	"github.com/seenimoa/newspulse/internal/report"
	"github.com/seenimoa/newspulse/internal/resolver"
	"github.com/seenimoa/newspulse/internal/tickers"
	"github.com/seenimoa/newspulse/pkg/models"
)

// quietLogger is silent unless --verbose is set, so one-shot commands do
// not create log files.
func quietLogger(cmd *cobra.Command) (arbor.ILogger, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logging.New(logging.Config{Level: "debug", Outputs: []string{"console"}})
	}
	return logging.NewSilent(), nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("no text given")
	}
	return text, nil
}

func tickersFile(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("tickers-file"); path != "" {
		return path
	}
	return cfg.Tickers.File
}

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [text]",
	Short: "Print the tickers mentioned in text",
	Long: `Resolve the tickers mentioned in text using the ticker registry.
Reads stdin when no text is given.

Examples:
  newspulse resolve "Apple and MSFT rallied after earnings"
  cat article.txt | newspulse resolve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		logger, err := quietLogger(cmd)
		if err != nil {
			return err
		}
		reg, err := tickers.Load(tickersFile(cmd), logger)
		if err != nil {
			return err
		}
		found := resolver.New(reg, recognizer(reg), logger).Resolve(text)
		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tickers found")
			return nil
		}
		if names, _ := cmd.Flags().GetBool("names"); names {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sym := range found {
				name, _ := reg.Company(sym)
				fmt.Fprintf(tw, "%s\t%s\n", sym, name)
			}
			return tw.Flush()
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(found, " "))
		return nil
	},
}

// --- Score Command ---

var scoreCmd = &cobra.Command{
	Use:   "score [text]",
	Short: "Print the sentiment score of text",
	Long: `Score text with the configured sentiment model and print the score in
[-1, 1] followed by its bucket. Reads stdin when no text is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		if noBlend, _ := cmd.Flags().GetBool("no-blend"); noBlend {
			cfg.Sentiment.Blend = false
		}
		logger, err := quietLogger(cmd)
		if err != nil {
			return err
		}
		scorer, err := buildScorer(cmd.Context(), logger)
		if err != nil {
			return err
		}
		score := scorer.Score(cmd.Context(), text)
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f %s\n", score, models.Classify(score))
		return nil
	},
}

// --- Tickers Command ---

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "List the ticker registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := quietLogger(cmd)
		if err != nil {
			return err
		}
		reg, err := tickers.Load(tickersFile(cmd), logger)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TICKER\tCOMPANY")
		for _, rec := range reg.Records() {
			fmt.Fprintf(tw, "%s\t%s\n", rec.Symbol, rec.CompanyName)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d tickers from %s\n", reg.Len(), tickersFile(cmd))
		return nil
	},
}

// --- History Command ---

var historyCmd = &cobra.Command{
	Use:   "history <run-id>",
	Short: "Print a run stored in a SQLite report",
	Long: `Print the per-ticker rows a run appended to a SQLite report database.
The database defaults to output.path.

Examples:
  newspulse history 3f2c9a4e-... --db data/output/history.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		if db == "" {
			db = cfg.Output.Path
		}
		rows, err := report.ReadSQLite(db, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintf(out, "No rows for run %s in %s\n", args[0], db)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tTICKER\tSCORE\tMENTIONS\t+\t-\t=")
		for i, r := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n", i+1, r.Ticker, report.FormatScore(r.SentimentScore),
				r.TotalMentions, r.PositiveMentions, r.NegativeMentions, r.NeutralMentions)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().String("db", "", "SQLite report path (default: output.path)")
	resolveCmd.Flags().Bool("names", false, "print one ticker per line with its company name")
	for _, c := range []*cobra.Command{resolveCmd, tickersCmd} {
		c.Flags().String("tickers-file", "", "path to ticker CSV (default: tickers.file)")
	}
	scoreCmd.Flags().Bool("no-blend", false, "disable financial-term blending")
}
