package commands

import (
	"github.com/spf13/cobra"
)

var (
	strategyFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "bifx",
	Short: "BIFX - Borsa Istanbul fear index",
	Long: `BIFX composite fear index pipeline.

Aggregates market, FX, CDS, and search-interest series, computes the
0-100 fear index, and evaluates it against realized returns.

Examples:
  bifx run
  bifx fetch
  bifx backtest
  bifx serve
  bifx scheduler start`,
	SilenceUsage: true,
}

// Execute runs the root command; called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default from INDEX_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
