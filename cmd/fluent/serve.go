package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rodrigues2k/fluent-selenium"
	remote "github.com/rodrigues2k/fluent-selenium/pkg/adapters/http"
	"github.com/rodrigues2k/fluent-selenium/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTML document as a remote driver",
	Long: `Loads an HTML document and exposes it over HTTP as a remote driver.
Chain scripts can also be posted to /run; step metrics are served on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath, _ := cmd.Flags().GetString("doc")
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		doc, err := openDocument(docPath)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		router := chi.NewRouter()
		router.Use(middleware.Recoverer)
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		router.Mount("/", remote.NewHandler(doc,
			remote.WithLogger(logger),
			remote.WithRunner(
				fluent.WithRetryPolicy(cfg.Retry),
				fluent.WithHooks(metrics.Hooks()),
				fluent.WithHooks(observability.LogHooks(logger)),
			),
		))

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting fluent server", "addr", srv.Addr, "doc", docPath)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("fluent server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("doc", "", "HTML document to serve")
	serveCmd.Flags().String("addr", ":4444", "Address to listen on")
}
