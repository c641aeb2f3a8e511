package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/config"
	"github.com/christopherklint97/vocseed/internal/ingest"
	"github.com/christopherklint97/vocseed/internal/loader"
	"github.com/christopherklint97/vocseed/internal/record"
	"github.com/christopherklint97/vocseed/internal/report"
	"github.com/christopherklint97/vocseed/internal/store"
	"github.com/christopherklint97/vocseed/internal/tui"
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Send every record to the ingestion API or the database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().String("target", "", "where to load records: api or db")
	loadCmd.Flags().Int("max-files", 0, "load at most this many files; 0 loads all")
	loadCmd.Flags().Duration("delay", loader.DefaultDelay, "pause between records")
	loadCmd.Flags().String("api-url", "", "ingestion API base URL")
	loadCmd.Flags().String("endpoint", "", "API endpoint: save-conversation or enhanced-classify")
	loadCmd.Flags().String("db", "", "SQLite database path for the db target")
	loadCmd.Flags().String("push-url", "", "Prometheus Pushgateway URL to push metrics to when done")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyLoadFlags(cmd, cfg)
	logger := newLogger(cfg)

	dir := cfg.Data.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	files, err := record.Discover(dir, cfg.Data.Pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matching %s in %s", cfg.Data.Pattern, dir)
	}

	sink, closeSink, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	opts := loader.Options{
		MaxFiles: cfg.Load.MaxFiles,
		Delay:    time.Duration(cfg.Load.DelayMS) * time.Millisecond,
	}
	if cmd.Flags().Changed("delay") {
		opts.Delay, _ = cmd.Flags().GetDuration("delay")
	}

	ctx, stop := signalContext()
	defer stop()

	total := len(files)
	if opts.MaxFiles > 0 && opts.MaxFiles < total {
		total = opts.MaxFiles
	}

	var res *loader.Result
	if tui.Interactive(os.Stderr) && !verbose {
		err = tui.RunProgress(ctx, fmt.Sprintf("Loading into %s", sink.Name()), total, func(ctx context.Context, step func(tui.Step)) error {
			prevFailed := 0
			opts.OnFile = func(p loader.Progress) {
				step(tui.Step{Done: p.Index, Total: p.Total, Label: p.File, Failed: p.FilesFailed > prevFailed})
				prevFailed = p.FilesFailed
			}
			var runErr error
			res, runErr = loader.New(sink, opts, quietLogger(logger)).Run(ctx, files)
			return runErr
		})
	} else {
		res, err = loader.New(sink, opts, logger).Run(ctx, files)
	}
	if res == nil {
		return err
	}

	// The run context may be cancelled; the summary still gets a chance.
	sumCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sum, sumErr := sink.Summary(sumCtx, 5)
	if sumErr != nil {
		logger.Warn("fetching summary", "error", sumErr)
	}
	fmt.Print(report.LoadSummary(res, sum))
	finish(cfg, logger, "vocseed", fmt.Sprintf("Loaded %d records from %d files", res.Records, res.FilesOK))
	return err
}

func applyLoadFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		cfg.Load.Target = v
	}
	if cmd.Flags().Changed("max-files") {
		cfg.Load.MaxFiles, _ = cmd.Flags().GetInt("max-files")
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		cfg.API.Endpoint = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database.Path = v
	}
	if v, _ := cmd.Flags().GetString("push-url"); v != "" {
		cfg.API.PushURL = v
	}
}

func newSink(cfg *config.Config, logger *slog.Logger) (loader.Sink, func(), error) {
	switch cfg.Load.Target {
	case "api":
		endpoint, err := ingest.ParseEndpoint(cfg.API.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return loader.NewAPISink(ingest.NewClient(cfg.API.BaseURL, endpoint, logger)), func() {}, nil
	case "db":
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return loader.NewDBSink(db), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown load target %q (want api or db)", cfg.Load.Target)
}

func openDB(cfg *config.Config) (*store.DB, error) {
	path, err := cfg.DBPath()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
