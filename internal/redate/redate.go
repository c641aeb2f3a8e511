// Package redate spreads a batch of record files across a date range by
// stamping each file with a scheduled consultation date and time.
package redate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/christopherklint97/vocseed/internal/metrics"
	"github.com/christopherklint97/vocseed/internal/record"
	"github.com/christopherklint97/vocseed/internal/schedule"
)

const topDays = 10

// Options configure a run.
type Options struct {
	Range schedule.DateRange
	// Seed fixes the plan and the time draws. Zero seeds from the clock.
	Seed uint64
	// DryRun assigns dates without writing files.
	DryRun bool
	// OnPlan is called once the plan exists, before any file is touched.
	OnPlan func(*schedule.Plan)
	// OnFile is called after each file.
	OnFile func(Progress)
}

// Progress is reported after each file.
type Progress struct {
	Index      int
	Total      int
	File       string
	Assignment schedule.Assignment
	Err        error
}

// Result summarizes a run.
type Result struct {
	Plan    *schedule.Plan
	Files   int
	Updated int
	Failed  int
	// Exhausted is set when the schedule ran out before the last file.
	Exhausted bool
	// Remaining is the number of unassigned slots when the run ended.
	Remaining int
	// Pending lists days that still had quota when the run ended.
	Pending []schedule.DayCount
}

type Redater struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Redater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Redater{opts: opts, logger: logger}
}

// Run plans a quota for len(files) and stamps the files in order. A file
// that cannot be read is counted as failed and does not use up quota.
func (r *Redater) Run(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		return nil, errors.New("no record files to redate")
	}

	src := schedule.NewSource(r.opts.Seed)
	plan, err := schedule.NewGenerator(src, r.logger).Generate(r.opts.Range, len(files))
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	r.logger.Info("plan generated", "range", plan.Range.String(), "files", len(files),
		"adjusted", plan.Adjusted.Format(schedule.DateLayout), "delta", plan.Delta)
	for _, d := range plan.Quota.Top(topDays) {
		r.logger.Info("busiest day", "date", d.Day, "count", d.Count)
	}
	if r.opts.OnPlan != nil {
		r.opts.OnPlan(plan)
	}

	alloc := schedule.NewAllocator(plan.Quota, schedule.NewTimeSampler(src))
	res := &Result{Plan: plan, Files: len(files)}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			res.Remaining, res.Pending = plan.Quota.Total(), plan.Quota.Pending()
			return res, err
		}

		a, err := r.redateFile(path, alloc)
		if errors.Is(err, schedule.ErrAllocationExhausted) {
			res.Exhausted = true
			r.logger.Warn("schedule exhausted", "file", filepath.Base(path), "remaining_files", len(files)-i)
			break
		}
		if err != nil {
			res.Failed++
			metrics.FilesTotal.WithLabelValues("redate", "failed").Inc()
			r.logger.Warn("file not redated", "file", filepath.Base(path), "error", err)
		} else {
			res.Updated++
			metrics.FilesTotal.WithLabelValues("redate", "ok").Inc()
			r.logger.Debug("file redated", "file", filepath.Base(path), "date", a.DateString(), "time", a.Time)
		}

		if r.opts.OnFile != nil {
			r.opts.OnFile(Progress{Index: i + 1, Total: len(files), File: filepath.Base(path), Assignment: a, Err: err})
		}
	}

	res.Remaining, res.Pending = plan.Quota.Total(), plan.Quota.Pending()
	r.logger.Info("redate finished", "updated", res.Updated, "failed", res.Failed, "total", res.Files)
	for _, d := range res.Pending {
		r.logger.Warn("quota left over", "date", d.Day, "remaining", d.Count)
	}
	return res, nil
}

// redateFile validates the file before taking a slot from the schedule.
func (r *Redater) redateFile(path string, alloc *schedule.Allocator) (schedule.Assignment, error) {
	f, err := record.ReadFile(path)
	if err != nil {
		return schedule.Assignment{}, err
	}

	a, err := alloc.AssignNext()
	if err != nil {
		return schedule.Assignment{}, err
	}

	if err := f.Stamp(a.DateString(), a.Time); err != nil {
		return a, err
	}
	if r.opts.DryRun {
		return a, nil
	}
	return a, f.Save()
}
