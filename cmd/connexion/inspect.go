package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/classify"
	"github.com/jonathan/connexion/internal/observability"
	"github.com/jonathan/connexion/internal/page"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect",
	Short: "Classify a saved profile page without a browser",
	Long: `Reads a profile page saved as HTML and reports what the outreach loop would
see on it: the connection count, the available action, and whether the weekly
limit banner is showing. Useful when the site's layout changes.`,
	RunE: runInspectCmd,
}

var inspectHTML string

func init() {
	inspectCommand.Flags().StringVar(&inspectHTML, "html", "", "Path to a saved profile page (required)")
	_ = inspectCommand.MarkFlagRequired("html")
	rootCmd.AddCommand(inspectCommand)
}

func runInspectCmd(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(inspectHTML)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inspectHTML, err)
	}
	defer f.Close()

	snap, err := page.ReadSnapshot(f)
	if err != nil {
		return err
	}
	session := page.NewStaticSession(snap)

	result, err := classify.Classify(context.Background(), session)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintClassification(inspectHTML, result)

	if name, ok, _ := session.ReadText(context.Background(), page.FieldFullName); ok {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", name)
	}
	return nil
}
