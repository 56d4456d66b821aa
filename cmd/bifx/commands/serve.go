package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozanyurt/bifx/internal/api"
	"github.com/ozanyurt/bifx/internal/api/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the read-side API over persisted runs. Requires the database.

Endpoints:
  GET /health
  GET /api/index/latest
  GET /api/index/series?from=YYYY-MM-DD&to=YYYY-MM-DD
  GET /api/backtest/latest
  GET /api/runs/latest

Example:
  bifx serve
  bifx serve --port 8090`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "override listen port")
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if d.store == nil {
		return fmt.Errorf("serve requires DATABASE_ENABLED=true")
	}
	if err := d.migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if servePort != "" {
		d.cfg.Port = servePort
	}

	router := api.NewRouter(
		handlers.NewIndexHandler(d.store.Index, d.store.Runs, d.log),
		handlers.NewBacktestHandler(d.store.Reports, d.log),
		d.log,
	)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
