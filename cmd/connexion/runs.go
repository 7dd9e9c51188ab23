package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List recent outreach runs recorded in the database",
	RunE:  runRunsCmd,
}

var runsLimit int

func init() {
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	rootCmd.AddCommand(runsCommand)
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("runs are only recorded with a database; set DATABASE_URL")
	}

	q, err := openQueue(ctx, cfg)
	if err != nil {
		return err
	}
	defer q.Close()

	runs, err := q.runs.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STARTED\tSTATUS\tSENT\tQUOTA\tID")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Status, r.Sent, r.Quota, r.ID)
	}
	return w.Flush()
}
