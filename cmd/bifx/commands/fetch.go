package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the configured sources without computing the index",
	Long: `Aggregates every enabled source over the configured period and prints
per-asset coverage. Useful for verifying provider credentials and data
availability before scheduling runs.

Example:
  bifx fetch`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	start, end, err := d.strategy.Period.Range(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("resolve period: %w", err)
	}

	// Aggregation only; nothing is computed or persisted.
	dataset, warnings, err := d.aggregator.Run(cmd.Context(), d.strategy.Sources, start, end)
	if err != nil {
		return err
	}

	printHeader("Source Coverage")
	printKeyValue("Period", fmt.Sprintf("%s ~ %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	printSeparator()

	names := dataset.Names()
	sort.Strings(names)
	for _, name := range names {
		series, _ := dataset.Get(name)
		first := series.Points[0].Date.Format("2006-01-02")
		last := series.Points[series.Len()-1].Date.Format("2006-01-02")
		printKeyValue(name, fmt.Sprintf("%d points (%s ~ %s)", series.Len(), first, last))
	}
	printSeparator()

	for _, w := range warnings {
		printWarning(w)
	}
	printSuccess(fmt.Sprintf("%d of %d enabled sources fetched", len(dataset), len(d.strategy.EnabledSources())))
	return nil
}
