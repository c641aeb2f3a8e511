package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/config"
	"github.com/christopherklint97/vocseed/internal/metrics"
	"github.com/christopherklint97/vocseed/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:           "vocseed",
	Short:         "Prepare and load sample VOC consultation data",
	Long:          "vocseed spreads consultation record files across a date range with a realistic daily trend and loads them into the ingestion API or database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configFile  string
	verbose     bool
	metricsFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/vocseed/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	rootCmd.AddCommand(redateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// quietLogger drops info lines while a live progress view owns the terminal.
func quietLogger(logger *slog.Logger) *slog.Logger {
	if verbose {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func finish(cfg *config.Config, logger *slog.Logger, title, message string) {
	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			logger.Warn("writing metrics", "error", err)
		}
	}
	if cfg.API.PushURL != "" {
		if err := metrics.Push(cfg.API.PushURL, "vocseed"); err != nil {
			logger.Warn("pushing metrics", "error", err)
		}
	}
	if cfg.Notifications.Enabled {
		if err := tui.Notify(title, message); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
}
