package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/vocseed/internal/sample"
	"github.com/christopherklint97/vocseed/internal/tui"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Write synthetic record files for trying out the pipeline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().Int("count", 100, "number of files to write")
	sampleCmd.Flags().Int("turns", 4, "records per file")
	sampleCmd.Flags().String("prefix", "", "file name prefix")
	sampleCmd.Flags().Int64("seed", 0, "random seed for the content; 0 seeds from the clock")
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	opts := sample.Options{Dir: cfg.Data.Dir, Prefix: cfg.Data.Prefix}
	if len(args) > 0 {
		opts.Dir = args[0]
	}
	if v, _ := cmd.Flags().GetString("prefix"); v != "" {
		opts.Prefix = v
	}
	opts.Count, _ = cmd.Flags().GetInt("count")
	opts.Turns, _ = cmd.Flags().GetInt("turns")
	opts.Seed, _ = cmd.Flags().GetInt64("seed")

	paths, err := sample.Generate(opts)
	if err != nil {
		return err
	}
	logger.Debug("sample files written", "dir", opts.Dir, "files", len(paths))
	fmt.Println(tui.SuccessStyle.Render(fmt.Sprintf("Wrote %d files to %s", len(paths), opts.Dir)))
	return nil
}
