package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devmap/internal/api"
	"github.com/spf13/cobra"
)

var (
	servePort string
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP ingestion and chat server",
	Long: `Start the devmap HTTP server. The server accepts GitHub, Jira and
Confluence webhook events, classifies each contribution into technical
domains, and exposes the aggregated per-developer summaries plus a chat
endpoint backed by the knowledge base.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if serveHost != "" {
		a.cfg.Server.Host = serveHost
	}
	if servePort != "" {
		a.cfg.Server.Port = servePort
	}
	addr := a.cfg.Server.Addr()

	runner, trigger := a.newAggregationRunner()
	runner.Start()
	defer func() {
		if err := runner.Stop(30 * time.Second); err != nil {
			a.logger.Warn("Aggregation runner did not drain in time", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	server := api.NewServer(addr, api.Deps{
		Ingest:    a.newIngestService(trigger),
		Chat:      a.chat,
		Engine:    a.engine,
		Exporter:  a.exporter,
		Summaries: a.summaries,
		Logger:    a.logger,
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting devmap HTTP server", map[string]interface{}{
			"addr": addr,
		})
		fmt.Printf("devmap server listening on http://%s\n", addr)
		fmt.Println("Press Ctrl+C to stop")
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			a.logger.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case sig := <-shutdown:
		a.logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("Error during shutdown", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		a.logger.Info("Server stopped gracefully", nil)
	}

	return nil
}
