package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hireloop/questgen/internal/config"
	"github.com/hireloop/questgen/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "questgen",
	Short: "Policy-aware interview question generation",
	Long: `questgen generates tailored written-interview questions for a
candidate by combining the job description, the candidate's resume and the
company's policies through an LLM pipeline with validation and retries.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and the logger before any command runs.
// version and help work without configuration.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "init" {
		return nil
	}

	loader := config.NewLoader(config.NewValidator())
	loaded, err := loader.LoadWithDefaults(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logger = observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "questgen.yaml", "path to the configuration file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(policyCmd)
}
