package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ozanyurt/bifx/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest persisted run and index value",
	Long: `Reads the most recent run, index value, and backtest report from the
database. Requires the database.

Example:
  bifx status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if d.store == nil {
		return fmt.Errorf("status requires DATABASE_ENABLED=true")
	}
	ctx := cmd.Context()

	run, err := d.store.Runs.GetLatest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		printWarning("No runs persisted yet; run `bifx run` first")
		return nil
	}
	if err != nil {
		return err
	}

	printHeader("Latest Run")
	printKeyValue("Run ID", fmt.Sprintf("#%d", run.ID))
	printKeyValue("Finished", run.FinishedAt.Format("2006-01-02 15:04:05"))
	printKeyValue("Period", fmt.Sprintf("%s ~ %s",
		run.From.Format("2006-01-02"), run.To.Format("2006-01-02")))
	printKeyValue("Config hash", run.ConfigHash[:12])
	printKeyValue("Assets", fmt.Sprintf("%d", run.AssetCount))
	printKeyValue("Features", fmt.Sprintf("%d", run.FeatureCount))
	printSeparator()

	if point, err := d.store.Index.GetLatest(ctx); err == nil {
		printKeyValue("Latest fear", fmt.Sprintf("%.1f (%s)", point.Value, point.Date.Format("2006-01-02")))
	}
	if report, err := d.store.Reports.GetLatest(ctx); err == nil {
		printKeyValue("Correlation", fmt.Sprintf("%.4f", report.Correlation))
		if report.Discrimination.Defined {
			printKeyValue("Crash AUC", fmt.Sprintf("%.4f", report.Discrimination.Value))
		}
	}
	printSeparator()

	for _, w := range run.Warnings {
		printWarning(w)
	}
	return nil
}
