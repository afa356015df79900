package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lspstress",
		Short: "Stress-test the LTeX language server on random arXiv papers",
		Long: `lspstress drives the LTeX language server over its LSP socket,
feeding it LaTeX sources from randomly chosen arXiv papers and checking
that every document produces a well-formed diagnostics notification
without unexpected output on the server's stderr.`,
	}

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
