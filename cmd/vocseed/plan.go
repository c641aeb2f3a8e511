package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/record"
	"github.com/christopherklint97/vocseed/internal/report"
	"github.com/christopherklint97/vocseed/internal/schedule"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the daily quota for a number of files without touching them",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().Int("total", 0, "number of consultations to plan")
	planCmd.Flags().String("dir", "", "plan for the number of record files in this directory")
	planCmd.Flags().String("start", "", "first day of the range")
	planCmd.Flags().String("end", "", "last day of the range")
	planCmd.Flags().Uint64("seed", 0, "random seed; 0 seeds from the clock")
	planCmd.Flags().StringP("format", "f", "text", "output format: text, csv, json, yaml")
	planCmd.Flags().String("plot", "", "save a bar chart of the plan to this PNG file")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScheduleFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	format, _ := cmd.Flags().GetString("format")
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	total, _ := cmd.Flags().GetInt("total")
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		files, err := record.Discover(dir, cfg.Data.Pattern)
		if err != nil {
			return err
		}
		total = len(files)
	}
	if total == 0 {
		return fmt.Errorf("set --total or --dir")
	}

	r, err := cfg.DateRange(time.Now())
	if err != nil {
		return err
	}
	plan, err := schedule.NewGenerator(schedule.NewSource(cfg.Schedule.Seed), logger).Generate(r, total)
	if err != nil {
		return err
	}

	if err := report.WritePlan(os.Stdout, plan, f); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	if file, _ := cmd.Flags().GetString("plot"); file != "" {
		if err := report.PlotPlan(plan, file); err != nil {
			return err
		}
		logger.Info("chart saved", "file", file)
	}
	finish(cfg, logger, "vocseed", fmt.Sprintf("Planned %d consultations", total))
	return nil
}

// writePlanFile saves the plan in the format named by the file extension.
func writePlanFile(path string, p *schedule.Plan) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "txt" {
		ext = "text"
	}
	f, err := report.ParseFormat(ext)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WritePlan(out, p, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
