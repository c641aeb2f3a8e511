// Package loader delivers every record of a batch of record files to a sink.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/christopherklint97/vocseed/internal/metrics"
	"github.com/christopherklint97/vocseed/internal/record"
)

const DefaultDelay = 100 * time.Millisecond

// Options tune a load run.
type Options struct {
	// MaxFiles limits the run to the first n files; 0 means all.
	MaxFiles int
	// Delay is the pause between records.
	Delay time.Duration
	// ProgressEvery logs a running total every n files.
	ProgressEvery int
	// OnFile is called after each file.
	OnFile func(Progress)
}

// Progress is reported after each file.
type Progress struct {
	Index int
	Total int
	File  string
	Result
}

// Result counts what a run did. A file counts as succeeded when at least
// one of its records was saved or was already stored.
type Result struct {
	Files         int
	FilesOK       int
	FilesFailed   int
	Records       int
	RecordsFailed int
	Duplicates    int
}

type Loader struct {
	sink   Sink
	opts   Options
	logger *slog.Logger
}

func New(sink Sink, opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 10
	}
	return &Loader{sink: sink, opts: opts, logger: logger}
}

// Run checks the sink and then loads files in order. It stops between
// records when ctx is cancelled and returns what was done so far.
func (l *Loader) Run(ctx context.Context, files []string) (*Result, error) {
	if err := l.sink.Check(ctx); err != nil {
		return nil, fmt.Errorf("%s sink unavailable: %w", l.sink.Name(), err)
	}

	if l.opts.MaxFiles > 0 && len(files) > l.opts.MaxFiles {
		files = files[:l.opts.MaxFiles]
	}

	res := &Result{Files: len(files)}
	l.logger.Info("loading records", "sink", l.sink.Name(), "files", len(files))

	for i, path := range files {
		if err := l.loadFile(ctx, path, res); err != nil {
			return res, err
		}

		if l.opts.OnFile != nil {
			l.opts.OnFile(Progress{Index: i + 1, Total: len(files), File: filepath.Base(path), Result: *res})
		}
		if (i+1)%l.opts.ProgressEvery == 0 || i+1 == len(files) {
			l.logger.Info("load progress",
				"done", i+1, "total", len(files),
				"percent", fmt.Sprintf("%.1f", float64(i+1)/float64(len(files))*100),
				"files_ok", res.FilesOK, "files_failed", res.FilesFailed, "records", res.Records)
		}
	}

	return res, nil
}

func (l *Loader) loadFile(ctx context.Context, path string, res *Result) error {
	name := filepath.Base(path)
	f, err := record.ReadFile(path)
	if err != nil {
		res.FilesFailed++
		metrics.FilesTotal.WithLabelValues("load", "invalid").Inc()
		l.logger.Warn("skipping file", "file", name, "error", err)
		return nil
	}

	saved, dups := 0, 0
	for j, r := range f.Records {
		if j > 0 && l.opts.Delay > 0 {
			if err := sleep(ctx, l.opts.Delay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		err := l.save(ctx, r)
		metrics.SaveDurationSeconds.WithLabelValues(l.sink.Name()).Observe(time.Since(start).Seconds())

		switch {
		case err == nil:
			saved++
			res.Records++
			metrics.RecordsTotal.WithLabelValues(l.sink.Name(), "saved").Inc()
			l.logger.Debug("record saved", "file", name, "source_id", r.SourceID())
		case errors.Is(err, ErrDuplicate):
			dups++
			res.Duplicates++
			metrics.RecordsTotal.WithLabelValues(l.sink.Name(), "duplicate").Inc()
			l.logger.Debug("record already stored", "file", name, "source_id", r.SourceID())
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.RecordsFailed++
			metrics.RecordsTotal.WithLabelValues(l.sink.Name(), "failed").Inc()
			l.logger.Warn("record failed", "file", name, "source_id", r.SourceID(), "error", err)
		}
	}

	if saved+dups > 0 {
		res.FilesOK++
		metrics.FilesTotal.WithLabelValues("load", "ok").Inc()
		l.logger.Debug("file loaded", "file", name, "records", saved)
	} else {
		res.FilesFailed++
		metrics.FilesTotal.WithLabelValues("load", "failed").Inc()
		l.logger.Warn("no records saved from file", "file", name)
	}
	return nil
}

func (l *Loader) save(ctx context.Context, r record.Record) error {
	if !r.IsObject() {
		return fmt.Errorf("record is not a JSON object")
	}
	return l.sink.Save(ctx, r)
}

// Summary asks the sink what it holds now.
func (l *Loader) Summary(ctx context.Context, limit int) (*Summary, error) {
	return l.sink.Summary(ctx, limit)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
