package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/browser"
	"github.com/jonathan/connexion/internal/observability"
	"github.com/jonathan/connexion/internal/outreach"
)

var connectCommand = &cobra.Command{
	Use:   "connect",
	Short: "Send connection requests to queued profiles",
	Long: `Logs in, then visits queued profiles one at a time. Profiles with enough
connections get a personalized connection request, or have their pending
invitation accepted. The run ends when --num-requests succeed, the weekly
invitation limit appears, or the queue runs out.

Every visited profile is removed from the queue, whatever the outcome.
Ctrl-C stops the run after the current profile and still saves the queue.`,
	RunE: runConnectCmd,
}

var (
	connectNumRequests    int
	connectMinConnections int
	connectMessage        string
	connectShowBrowser    bool
)

func init() {
	connectCommand.Flags().IntVarP(&connectNumRequests, "num-requests", "n", 0, "Successful requests to stop after (1-50)")
	connectCommand.Flags().IntVar(&connectMinConnections, "min-connections", 0, "Skip profiles with fewer connections (0-500)")
	connectCommand.Flags().StringVarP(&connectMessage, "message", "m", "", "Invitation note; [FULL NAME] and [FIRST NAME] are replaced")
	connectCommand.Flags().BoolVar(&connectShowBrowser, "show-browser", false, "Run Chrome with a visible window")
	rootCmd.AddCommand(connectCommand)
}

func runConnectCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("num-requests") {
		cfg.NumRequests = connectNumRequests
	}
	if cmd.Flags().Changed("min-connections") {
		cfg.MinimumConnectionCount = connectMinConnections
	}
	if cmd.Flags().Changed("message") {
		cfg.Message = connectMessage
	}
	if cmd.Flags().Changed("show-browser") {
		headless := !connectShowBrowser
		cfg.Headless = &headless
	}
	if err := cfg.ValidateOutreach(); err != nil {
		return err
	}

	q, err := openQueue(ctx, cfg)
	if err != nil {
		return err
	}
	defer q.Close()

	// the browser outlives the signal context so the queue can still be saved
	session, err := browser.New(context.WithoutCancel(ctx), cfg.BrowserConfig())
	if err != nil {
		return err
	}
	defer session.Close()

	opts := cfg.OutreachOptions()
	if q.runs != nil {
		opts.Recorder = q.runs
	}
	orch := outreach.New(opts, session, q)
	status := orch.Run(ctx)

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintOutreach(orch, status)
	}

	if !status.Success() && status.Kind != outreach.StatusInterrupted {
		return errors.New(status.Message())
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), status.Message())
	return nil
}
