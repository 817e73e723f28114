package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/obsidianstack/enpal-exporter/internal/api"
	"github.com/obsidianstack/enpal-exporter/internal/config"
	"github.com/obsidianstack/enpal-exporter/internal/exporter"
	"github.com/obsidianstack/enpal-exporter/internal/scraper"
)

const shutdownTimeout = 5 * time.Second

// logLevel is shared by the default logger and the config watcher.
var logLevel = new(slog.LevelVar)

func main() {
	// Logs go to stderr so that `scrape` output on stdout stays clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := rootCommand().Execute(); err != nil {
		slog.Error("enpal-exporter failed", "err", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		configPath string
		cfg        *config.Config
	)

	cmd := &cobra.Command{
		Use:           "enpal-exporter",
		Short:         "Expose the Enpal box status page as Prometheus metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
				var lvl slog.Level
				if err := lvl.UnmarshalText([]byte(loaded.LogLevel)); err != nil {
					return fmt.Errorf("invalid log level %q: %w", loaded.LogLevel, err)
				}
			}
			logLevel.Set(loaded.Level())
			cfg = loaded

			slog.Info("config loaded",
				"box", cfg.Box.Label(),
				"address", cfg.Box.Address,
				"listen", cfg.Listen,
				"log_level", cfg.LogLevel,
			)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg, configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional path to a YAML config file")
	cmd.PersistentFlags().StringP("log-level", "l", config.DefaultLogLevel, "log level: debug | info | warn | error")

	cmd.AddCommand(serveCommand(&cfg, &configPath))
	cmd.AddCommand(scrapeCommand(&cfg))

	return cmd
}

func serveCommand(cfg **config.Config, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /metrics, scraping the box on every request (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *cfg, *configPath)
		},
	}
}

func scrapeCommand(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the box once and print the exposition text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := newExporter(*cfg)
			if err != nil {
				return err
			}
			out, err := exp.Export(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newExporter(cfg *config.Config) (*exporter.Exporter, error) {
	f, err := scraper.New(cfg.Box)
	if err != nil {
		return nil, err
	}
	slog.Info("registered box", "box", cfg.Box.Label(), "url", f.URL())
	return exporter.New(f, cfg.Box.Label()), nil
}

func runServe(parent context.Context, cfg *config.Config, configPath string) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exp, err := newExporter(cfg)
	if err != nil {
		return err
	}

	// Only the log level follows the file; the box settings are fixed for
	// the lifetime of the process.
	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, func(updated *config.Config) {
				logLevel.Set(updated.Level())
				slog.Info("config hot-reloaded", "log_level", updated.LogLevel)
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.New(exp),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("enpal-exporter shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return httpSrv.Shutdown(shutdownCtx)
}
