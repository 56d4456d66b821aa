package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the pipeline and print the full evaluation report",
	Long: `Runs the pipeline over the configured period and prints the backtest
in detail: rank correlation with next-day moves, crash-day
discrimination, and the fear-gated exposure overlay.

Example:
  bifx backtest
  bifx backtest --strategy configs/index.yaml`,
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, _ []string) error {
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
	if result.Report == nil {
		for _, w := range result.Warnings {
			printWarning(w)
		}
		return fmt.Errorf("no backtest report produced")
	}
	report := result.Report

	printHeader("Backtest Report")
	printKeyValue("Period", fmt.Sprintf("%s ~ %s",
		report.From.Format("2006-01-02"), report.To.Format("2006-01-02")))
	printKeyValue("Observations", fmt.Sprintf("%d", report.Observations))
	printSeparator()

	printKeyValue("Rank correlation", fmt.Sprintf("%.4f", report.Correlation))
	if report.Discrimination.Defined {
		printKeyValue("Crash AUC", fmt.Sprintf("%.4f", report.Discrimination.Value))
	} else {
		printKeyValue("Crash AUC", "undefined (single-class labels)")
	}
	printKeyValue("Crash days", fmt.Sprintf("%d (threshold %.1f%%)",
		report.Discrimination.CrashDays, report.CrashThreshold*100))
	printKeyValue("Calm days", fmt.Sprintf("%d", report.Discrimination.CalmDays))
	printSeparator()

	printKeyValue("Sharpe (market)", fmt.Sprintf("%.3f", report.Overlay.SharpeMarket))
	printKeyValue("Sharpe (overlay)", fmt.Sprintf("%.3f", report.Overlay.SharpeStrategy))
	printKeyValue("Return (market)", fmt.Sprintf("%.2f%%", report.Overlay.TotalReturnMarket*100))
	printKeyValue("Return (overlay)", fmt.Sprintf("%.2f%%", report.Overlay.TotalReturnStrategy*100))
	printKeyValue("Mean exposure", fmt.Sprintf("%.2f", report.Overlay.MeanExposure))
	printSeparator()

	for _, w := range result.Warnings {
		printWarning(w)
	}
	printSuccess("Backtest complete")
	return nil
}
