package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/report"
	"github.com/christopherklint97/vocseed/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the voc_raw table holds",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("db", "", "SQLite database path")
	statusCmd.Flags().Int("recent", 5, "number of recent rows to show")
	statusCmd.Flags().Bool("daily", false, "also show rows per consultation date")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database.Path = v
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := db.CountVocRaw(ctx)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("recent")
	recent, err := db.RecentVocRaw(ctx, limit)
	if err != nil {
		return err
	}

	var daily []store.DailyCount
	if d, _ := cmd.Flags().GetBool("daily"); d {
		if daily, err = db.DailyCounts(ctx); err != nil {
			return err
		}
	}

	fmt.Print(report.StatusSummary(total, recent, daily))
	return nil
}
