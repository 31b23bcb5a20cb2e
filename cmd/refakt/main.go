package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "refakt",
	Short: "A duplicate code detector and refactoring assistant",
	Long: `refakt finds near-duplicate code across a project, explains how the
copies differ, and helps consolidate them safely.

Features:
  • Fingerprint-bucketed duplicate detection with MinHash similarity
  • Line-level alignment and divergence classification
  • Ranked refactoring suggestions with strategy advice
  • Hash-verified backups with one-command rollback`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewAnalyzeCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewDetectCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewDiffCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewApplyCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewBackupCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
