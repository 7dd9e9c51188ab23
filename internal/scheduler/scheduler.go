// Package scheduler wires up the cron job that periodically runs discovery
// passes.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs one pass a day, after the search provider's daily quota
// has reset.
const DefaultSpec = "@daily"

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron and runs one job on a cron spec. A tick that
// arrives while the previous run is still going is skipped, so runs never
// overlap on the shared stores.
type Scheduler struct {
	cron *cron.Cron
	spec string
	job  Job
	// RunOnStart also runs the job immediately when the scheduler starts.
	RunOnStart bool

	entry cron.EntryID
}

// New creates a Scheduler for spec. The spec is validated here.
func New(spec string, job Job) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	logger := cron.VerbosePrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		spec: spec,
		job:  job,
	}, nil
}

// Spec is the cron spec the job runs on.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Start registers the job and starts the scheduler. Jobs receive ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.entry = id

	if s.RunOnStart {
		// through the wrapped entry so it is subject to SkipIfStillRunning
		go s.cron.Entry(id).WrappedJob.Run()
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started with spec: %s", s.spec)
	return nil
}

// Next is the time of the next scheduled run, or zero before Start.
func (s *Scheduler) Next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Stop stops scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// Wait runs until ctx is done, then stops the scheduler.
func (s *Scheduler) Wait(ctx context.Context) {
	<-ctx.Done()
	s.Stop()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Println("[scheduler] Run started")
	start := time.Now()
	if err := s.job(ctx); err != nil {
		log.Printf("[scheduler] Run failed: %v", err)
		return
	}
	log.Printf("[scheduler] Run complete in %s", time.Since(start).Round(time.Millisecond))
}
