package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/index"
	"github.com/jonathan/connexion/internal/query"
)

var queriesCommand = &cobra.Command{
	Use:   "queries",
	Short: "Print the queries the next search pass would run",
	RunE:  runQueriesCmd,
}

var queriesFlags criteriaFlags

func init() {
	queriesFlags.register(queriesCommand)
	rootCmd.AddCommand(queriesCommand)
}

func runQueriesCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	queriesFlags.apply(cmd, cfg)
	criteria, err := criteriaOf(cfg)
	if err != nil {
		return err
	}

	idx, closeIndex, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeIndex()

	queries, err := query.Generate(criteria, func(q string) bool {
		return idx.Contains(index.Queries, q)
	}, cfg.RepeatQueries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, q := range queries {
		_, _ = fmt.Fprintln(out, q)
	}
	if cfg.Verbose {
		_, _ = fmt.Fprintf(out, "%d queries (%d already used)\n", len(queries), idx.Len(index.Queries))
	}
	return nil
}
