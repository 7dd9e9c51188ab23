package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/scheduler"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run search passes on a cron schedule until stopped",
	Long: `Runs a search pass on every tick of a cron schedule (default "@daily", after
the provider's daily quota resets). A tick is skipped while the previous pass
is still running.`,
	RunE: runScheduleCmd,
}

var (
	scheduleSpec  string
	scheduleNow   bool
	scheduleFlags criteriaFlags
)

func init() {
	scheduleCommand.Flags().StringVar(&scheduleSpec, "cron", "", `Cron spec, e.g. "@every 6h" or "0 7 * * *"`)
	scheduleCommand.Flags().BoolVar(&scheduleNow, "now", false, "Also run a pass immediately")
	scheduleFlags.register(scheduleCommand)
	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scheduleFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("cron") {
		cfg.Schedule = scheduleSpec
	}
	if err := cfg.ValidateSearch(); err != nil {
		return err
	}

	s, err := scheduler.New(cfg.Schedule, func(ctx context.Context) error {
		summary, err := searchOnce(ctx, cmd, cfg)
		if summary != nil {
			printSearchSummary(cmd, summary)
		}
		return err
	})
	if err != nil {
		return err
	}
	s.RunOnStart = scheduleNow

	if err := s.Start(ctx); err != nil {
		return err
	}
	cmd.Printf("Next pass at %s\n", s.Next().Format("2006-01-02 15:04"))
	s.Wait(ctx)
	return nil
}
