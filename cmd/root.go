package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bisegni/dumpscan/internal/config"
	"github.com/bisegni/dumpscan/internal/logging"
)

var (
	configPath   string
	logLevel     string
	logFormat    string
	outputPretty bool
	scanWorkers  int

	// cfg is the effective configuration after flags are applied.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dumpscan",
	Short: "Streaming reader for MediaWiki SQL dumps",
	Long: `dumpscan reads the INSERT statements of mysqldump output, as published
for MediaWiki databases, and decodes them into typed rows without executing
any SQL. Plain files are memory mapped; .gz and .xz files are decompressed
into memory first.

The table is taken from the file name when it is not given, so
enwiki-20240101-page.sql.gz is read as the page table.

Examples:
  dumpscan tables
  dumpscan count enwiki-20240101-page.sql.gz --workers 8
  dumpscan dump categorylinks.sql --format json --pretty
  dumpscan query --table page=page.sql "SELECT page_namespace, COUNT(page_id) GROUP BY page_namespace"
  dumpscan redirects --page page.sql --redirect redirect.sql 0 14`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		if flags.Changed("log-format") {
			loaded.Log.Format = logFormat
		}
		if flags.Changed("pretty") {
			loaded.Output.Pretty = outputPretty
		}
		if flags.Changed("workers") {
			loaded.Scan.Workers = scanWorkers
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(cfg.Log.Format)
		if err != nil {
			return err
		}
		logging.InitLogger(level, format, os.Stderr)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logging.WithRunID(ctx, logging.NewRunID()))
		return nil
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel running scans.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&outputPretty, "pretty", false, "Pretty print output")
	rootCmd.PersistentFlags().IntVarP(&scanWorkers, "workers", "w", 1, "Parallel workers for commands that scan a whole dump")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(redirectsCmd)
}
