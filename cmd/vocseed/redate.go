package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/config"
	"github.com/christopherklint97/vocseed/internal/record"
	"github.com/christopherklint97/vocseed/internal/redate"
	"github.com/christopherklint97/vocseed/internal/report"
	"github.com/christopherklint97/vocseed/internal/schedule"
	"github.com/christopherklint97/vocseed/internal/tui"
)

var redateCmd = &cobra.Command{
	Use:   "redate [dir]",
	Short: "Stamp record files with scheduled consultation dates and times",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRedate,
}

func init() {
	redateCmd.Flags().String("start", "", "first day of the range (YYYY-MM-DD or e.g. \"6 weeks ago\")")
	redateCmd.Flags().String("end", "", "last day of the range")
	redateCmd.Flags().Uint64("seed", 0, "random seed; 0 seeds from the clock")
	redateCmd.Flags().String("pattern", "", "file glob inside dir")
	redateCmd.Flags().Bool("dry-run", false, "assign dates without writing files")
	redateCmd.Flags().String("plan-out", "", "write the generated plan to this file (.csv, .json, .yaml)")
}

func runRedate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScheduleFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	dir := cfg.Data.Dir
	if len(args) > 0 {
		dir = args[0]
	}
	pattern := cfg.Data.Pattern
	if p, _ := cmd.Flags().GetString("pattern"); p != "" {
		pattern = p
	}

	r, err := cfg.DateRange(time.Now())
	if err != nil {
		return err
	}
	files, err := record.Discover(dir, pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matching %s in %s", pattern, dir)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	planOut, _ := cmd.Flags().GetString("plan-out")
	interactive := tui.Interactive(os.Stderr) && !verbose

	show := func(s string) { fmt.Println(s) }
	opts := redate.Options{
		Range:  r,
		Seed:   cfg.Schedule.Seed,
		DryRun: dryRun,
		OnPlan: func(p *schedule.Plan) {
			show(report.TopDays(p.Quota.Top(10)))
			if planOut != "" {
				if err := writePlanFile(planOut, p); err != nil {
					logger.Warn("writing plan", "file", planOut, "error", err)
				}
			}
		},
	}

	ctx, stop := signalContext()
	defer stop()

	var res *redate.Result
	if interactive {
		err = tui.RunProgress(ctx, "Redating "+dir, len(files), func(ctx context.Context, step func(tui.Step)) error {
			show = func(s string) { step(tui.Step{Total: len(files), Note: s}) }
			opts.OnFile = func(p redate.Progress) {
				label := p.File
				if p.Err == nil {
					label += "  " + p.Assignment.DateString() + " " + p.Assignment.Time
				}
				step(tui.Step{Done: p.Index, Total: p.Total, Label: label, Failed: p.Err != nil})
			}
			var runErr error
			res, runErr = redate.New(opts, quietLogger(logger)).Run(ctx, files)
			return runErr
		})
	} else {
		res, err = redate.New(opts, logger).Run(ctx, files)
	}
	if res != nil {
		fmt.Print(report.RedateSummary(res))
		finish(cfg, logger, "vocseed", fmt.Sprintf("Redated %d of %d files", res.Updated, res.Files))
	}
	return err
}

func applyScheduleFlags(cmd *cobra.Command, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("start"); v != "" {
		cfg.Schedule.Start = v
	}
	if v, _ := cmd.Flags().GetString("end"); v != "" {
		cfg.Schedule.End = v
	}
	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetUint64("seed")
		if err != nil {
			return err
		}
		cfg.Schedule.Seed = seed
	}
	return nil
}
