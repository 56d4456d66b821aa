package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long: `Runs aggregation, feature computation, index normalization, and the
backtest over the configured period, persisting results when a database
is configured.

Example:
  bifx run
  bifx run --strategy configs/index.yaml`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	result, err := d.pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	printHeader("Pipeline Run")
	printKeyValue("Strategy", d.strategy.Meta.StrategyID)
	printKeyValue("Assets", fmt.Sprintf("%d", len(result.Dataset)))
	printKeyValue("Features", fmt.Sprintf("%d", len(result.Features.Names())))
	printKeyValue("Index points", fmt.Sprintf("%d", result.Index.Len()))
	if latest, ok := result.Index.Latest(); ok {
		printKeyValue("Latest fear", fmt.Sprintf("%.1f (%s)", latest.Value, latest.Date.Format("2006-01-02")))
	}
	printKeyValue("Duration", result.Finished.Sub(result.Started).String())
	if result.RunID > 0 {
		printKeyValue("Run ID", fmt.Sprintf("#%d", result.RunID))
	}
	printSeparator()

	for _, w := range result.Warnings {
		printWarning(w)
	}
	printSuccess("Pipeline run complete")
	return nil
}
