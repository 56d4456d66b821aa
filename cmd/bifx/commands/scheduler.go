package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ozanyurt/bifx/internal/scheduler"
	"github.com/ozanyurt/bifx/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
  daily_pipeline - full pipeline run, weekdays 18:30

Example:
  bifx scheduler start
  bifx scheduler run daily_pipeline
  bifx scheduler status`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runSchedulerStart,
	}
	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job statistics",
		RunE:  runSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func initScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewDailyPipelineJob(d.pipeline, d.log)); err != nil {
		return nil, err
	}
	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	sched, err := initScheduler(d)
	if err != nil {
		return err
	}
	sched.Start()

	printSuccess("Scheduler started")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(_ *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := initScheduler(d)
	if err != nil {
		return err
	}
	if err := sched.RunJob(args[0]); err != nil {
		return err
	}

	fmt.Printf("Job %s started (running in background)\n", args[0])
	// Block so the detached job can finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	return nil
}

func runSchedulerStatus(_ *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := initScheduler(d)
	if err != nil {
		return err
	}

	printHeader("Job Statistics")
	for name, stat := range sched.Stats() {
		printKeyValue("Job", name)
		printKeyValue("Schedule", stat.Schedule)
		printKeyValue("Total runs", fmt.Sprintf("%d", stat.TotalRuns))
		printKeyValue("Success rate", fmt.Sprintf("%.1f%%", stat.SuccessRate*100))
		if stat.LastRun != nil {
			printKeyValue("Last run", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastError != "" {
			printKeyValue("Last error", stat.LastError)
		}
		printSeparator()
	}
	return nil
}
