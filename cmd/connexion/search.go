package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/connexion/internal/config"
	"github.com/jonathan/connexion/internal/pipeline"
	"github.com/jonathan/connexion/internal/search"
	"github.com/jonathan/connexion/internal/types"
)

var searchCommand = &cobra.Command{
	Use:   "search",
	Short: "Discover new profiles and add them to the candidate queue",
	Long: `Generates every query for the configured criteria that has not run before,
searches each one, and appends profiles not seen by any earlier pass to the
candidate queue.

A pass stops early when the search provider's daily quota runs out; profiles
found up to that point are still queued.`,
	RunE: runSearchCmd,
}

// criteria flags shared by search, queries and schedule
type criteriaFlags struct {
	locations []string
	positions []string
	operator  string
	years     int
	repeat    bool
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.locations, "location", "l", nil, "Location to search (repeatable)")
	cmd.Flags().StringSliceVarP(&f.positions, "position", "p", nil, "Position to search (repeatable)")
	cmd.Flags().StringVar(&f.operator, "operator", "", `Experience operator: "<", ">" or "="`)
	cmd.Flags().IntVar(&f.years, "years", 0, "Experience years bound")
	cmd.Flags().BoolVar(&f.repeat, "repeat", false, "Rerun queries that earlier passes already used")
}

// apply overrides config values with flags that were explicitly set.
func (f *criteriaFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("location") {
		cfg.Locations = f.locations
	}
	if cmd.Flags().Changed("position") {
		cfg.Positions = f.positions
	}
	if cmd.Flags().Changed("operator") {
		cfg.ExperienceOperator = f.operator
	}
	if cmd.Flags().Changed("years") {
		cfg.ExperienceYears = f.years
	}
	if cmd.Flags().Changed("repeat") {
		cfg.RepeatQueries = f.repeat
	}
}

var searchFlags criteriaFlags

func init() {
	searchFlags.register(searchCommand)
	rootCmd.AddCommand(searchCommand)
}

func runSearchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	searchFlags.apply(cmd, cfg)
	if err := cfg.ValidateSearch(); err != nil {
		return err
	}

	summary, err := searchOnce(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	printSearchSummary(cmd, summary)
	return nil
}

// searchOnce opens the stores and runs a single discovery pass.
func searchOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*pipeline.SearchSummary, error) {
	client, err := search.NewGoogle(ctx, cfg.GoogleConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	idx, closeIndex, err := openIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeIndex()

	q, err := openQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	return pipeline.RunSearch(ctx, pipeline.SearchOptions{
		Criteria: cfg.Criteria(),
		Repeat:   cfg.RepeatQueries,
		Client:   client,
		Index:    idx,
		Queue:    q,
		Out:      cmd.OutOrStdout(),
		Verbose:  cfg.Verbose,
	})
}

func printSearchSummary(cmd *cobra.Command, s *pipeline.SearchSummary) {
	out := cmd.OutOrStdout()
	found := 0
	if s.Result != nil {
		found = len(s.Result.Profiles)
	}
	_, _ = fmt.Fprintf(out, "Found %d new profiles from %d queries; %d added to the queue.\n",
		found, len(s.Queries), s.Queued)
	if s.Result != nil && s.Result.Message != "" {
		_, _ = fmt.Fprintln(out, s.Result.Message)
	}
}

// criteriaOf is a convenience for commands that only need the criteria.
func criteriaOf(cfg *config.Config) (types.FilterCriteria, error) {
	c := cfg.Criteria()
	if err := c.Validate(); err != nil {
		return c, err
	}
	if _, err := c.YearConstraints(); err != nil {
		return c, err
	}
	return c, nil
}
