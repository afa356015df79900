package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/lspstress/internal/cli/config"
	"github.com/conduit-lang/lspstress/internal/harness"
)

var (
	runBatchSize     int
	runPort          int
	runSeed          int64
	runSaveTex       string
	runResultsDB     string
	runExtensionsDir string
	runVerbose       bool
)

func init() {
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "Number of arXiv papers to check")
	runCmd.Flags().IntVar(&runPort, "port", 0, "Port to use for the communication with the language server (0 picks a free port)")
	runCmd.Flags().Int64Var(&runSeed, "seed", -1, "Use a specific seed to generate arXiv IDs (negative picks a random seed)")
	runCmd.Flags().StringVar(&runSaveTex, "save-tex", "", "Save checked LaTeX files in the specified directory")
	runCmd.Flags().StringVar(&runResultsDB, "results-db", "", "Record validation results in the specified SQLite database")
	runCmd.Flags().StringVar(&runExtensionsDir, "extensions-dir", "", "VS Code extensions directory to scan (default ~/.vscode/extensions)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Enable debug-level protocol logging")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a validation batch against the language server",
	Long:  "Launch the LTeX language server and validate LaTeX sources from randomly chosen arXiv papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Flags win over the config file.
		if cmd.Flags().Changed("batch-size") {
			cfg.BatchSize = runBatchSize
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = runPort
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = runSeed
		}
		if cmd.Flags().Changed("save-tex") {
			cfg.SaveTexDir = runSaveTex
		}
		if cmd.Flags().Changed("results-db") {
			cfg.ResultsDB = runResultsDB
		}
		if cmd.Flags().Changed("extensions-dir") {
			cfg.ExtensionsDir = runExtensionsDir
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = runVerbose
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		logger := zap.NewNop()
		if cfg.Verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return harness.Run(ctx, cfg, logger)
	},
}
