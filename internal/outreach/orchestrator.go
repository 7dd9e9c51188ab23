package outreach

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/connexion/internal/classify"
	"github.com/jonathan/connexion/internal/page"
	"github.com/jonathan/connexion/internal/queue"
	"github.com/jonathan/connexion/internal/types"
)

// Outcome is what happened to one visited profile.
type Outcome string

const (
	OutcomeInvited        Outcome = "invited"
	OutcomeAccepted       Outcome = "accepted"
	OutcomeBelowThreshold Outcome = "below_threshold"
	OutcomeNoAffordance   Outcome = "no_affordance"
	OutcomeActionFailed   Outcome = "action_failed"
	OutcomeFault          Outcome = "fault"
)

// Recorder receives run lifecycle events, e.g. to keep an audit log. Errors
// are logged and never change the run's outcome.
type Recorder interface {
	StartRun(ctx context.Context, runID uuid.UUID, quota int) error
	RecordOutcome(ctx context.Context, runID uuid.UUID, profileURL string, outcome Outcome) error
	FinishRun(ctx context.Context, runID uuid.UUID, status Status) error
}

// Options configures a run.
type Options struct {
	// QuotaTarget is the number of successful invitations or acceptances
	// after which the run completes.
	QuotaTarget int
	// MinConnections is the smallest connection count worth contacting.
	MinConnections int
	// Message is the invitation note template.
	Message  string
	Username string
	Password string
	Pacer    *Pacer
	Recorder Recorder
	Verbose  bool
}

// Orchestrator owns the queue and counters for a single run.
type Orchestrator struct {
	opts    Options
	session page.Session
	store   queue.Store
	pacer   *Pacer

	runID    uuid.UUID
	sent     int
	consumed []string
}

// New creates an orchestrator for one run.
func New(opts Options, session page.Session, store queue.Store) *Orchestrator {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = NewPacer(DefaultMinDelay, DefaultMaxDelay)
	}
	return &Orchestrator{
		opts:    opts,
		session: session,
		store:   store,
		pacer:   pacer,
		runID:   uuid.New(),
	}
}

// RunID identifies this run in recorder events.
func (o *Orchestrator) RunID() uuid.UUID {
	return o.runID
}

// Sent is the number of successful actions so far.
func (o *Orchestrator) Sent() int {
	return o.sent
}

// Consumed lists the URLs taken off the queue so far, in visit order.
func (o *Orchestrator) Consumed() []string {
	return append([]string(nil), o.consumed...)
}

// Run logs in and works through the queue until the quota is met, the weekly
// limit banner appears, the queue runs dry, ctx is cancelled, or the session
// fails. Whatever the ending, the queue is saved without the consumed
// profiles before Run returns.
func (o *Orchestrator) Run(ctx context.Context) (status Status) {
	// page work ignores cancellation; ctx is only checked between profiles
	pageCtx := context.WithoutCancel(ctx)

	profiles, err := o.store.Load(pageCtx)
	if err != nil {
		log.Printf("[outreach] Failed to load queue: %v", err)
		return Status{Kind: StatusQueueUnavailable}
	}
	profiles = queue.Dedupe(profiles)

	o.record(func(r Recorder) error { return r.StartRun(pageCtx, o.runID, o.opts.QuotaTarget) })

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[outreach] Recovered from panic: %v", r)
			status = Status{Kind: StatusUnexpected, Sent: o.sent}
		}
		remaining := queue.Remove(profiles, o.consumed)
		if err := o.store.Save(pageCtx, remaining); err != nil {
			log.Printf("[outreach] Failed to save queue (%d remaining): %v", len(remaining), err)
		}
		o.record(func(r Recorder) error { return r.FinishRun(pageCtx, o.runID, status) })
		log.Printf("[outreach] Run %s finished: %s (%d consumed, %d queued)",
			o.runID, status.Message(), len(o.consumed), len(remaining))
	}()

	ok, err := o.session.Login(pageCtx, o.opts.Username, o.opts.Password)
	if err != nil {
		log.Printf("[outreach] Login failed: %v", err)
		if page.IsFatal(err) {
			return Status{Kind: StatusSessionError}
		}
		return Status{Kind: StatusLoginFailed}
	}
	if !ok {
		return Status{Kind: StatusLoginFailed}
	}

	for _, p := range profiles {
		if ctx.Err() != nil {
			return Status{Kind: StatusInterrupted, Sent: o.sent}
		}

		limited, err := o.visit(pageCtx, p)
		switch {
		case err == nil:
		case page.IsFatal(err):
			log.Printf("[outreach] Session unusable at %s: %v", p.URL, err)
			return Status{Kind: StatusSessionError, Sent: o.sent}
		case page.IsFault(err):
			log.Printf("[outreach] Skipping %s: %v", p.URL, err)
			o.record(func(r Recorder) error { return r.RecordOutcome(pageCtx, o.runID, p.URL, OutcomeFault) })
		default:
			log.Printf("[outreach] Unexpected error at %s: %v", p.URL, err)
			return Status{Kind: StatusUnexpected, Sent: o.sent}
		}

		if limited {
			return Status{Kind: StatusWeeklyLimit, Sent: o.sent}
		}
		if o.sent >= o.opts.QuotaTarget {
			return Status{Kind: StatusCompleted, Sent: o.sent}
		}
	}

	return Status{Kind: StatusQueueExhausted, Sent: o.sent}
}

// visit loads, classifies and acts on one profile. It reports whether the
// weekly limit banner is showing afterwards. The profile is consumed unless
// the session died before the page could load.
func (o *Orchestrator) visit(ctx context.Context, p types.CandidateProfile) (bool, error) {
	o.pacer.Wait()
	if err := o.session.Load(ctx, p.URL); err != nil {
		if !page.IsFatal(err) {
			o.consume(p.URL)
		}
		return false, err
	}
	o.consume(p.URL)
	o.pacer.Wait()

	result, err := classify.Classify(ctx, o.session)
	if err != nil {
		return false, err
	}
	if o.opts.Verbose {
		log.Printf("[outreach] %s: connections=%d affordance=%s", p.URL, result.ConnectionCount, result.Affordance)
	}

	outcome, err := o.act(ctx, result)
	if err != nil {
		return false, err
	}
	o.record(func(r Recorder) error { return r.RecordOutcome(ctx, o.runID, p.URL, outcome) })

	limited := result.WeeklyLimitReached
	if !limited && (outcome == OutcomeInvited || outcome == OutcomeActionFailed) {
		// the banner usually appears in response to the invitation itself
		limited, err = classify.WeeklyLimitReached(ctx, o.session)
		if err != nil {
			return false, err
		}
	}
	return limited, nil
}

// act dispatches on the classification and updates the sent count.
func (o *Orchestrator) act(ctx context.Context, result types.ClassificationResult) (Outcome, error) {
	if result.ConnectionCount < o.opts.MinConnections {
		return OutcomeBelowThreshold, nil
	}

	var (
		ok      bool
		err     error
		success Outcome
	)
	switch result.Affordance {
	case types.AffordanceDirectConnect, types.AffordanceMenuConnect:
		success = OutcomeInvited
		note, found, readErr := o.note(ctx)
		if readErr != nil {
			return OutcomeFault, readErr
		}
		if !found {
			return OutcomeActionFailed, nil
		}
		if result.Affordance == types.AffordanceDirectConnect {
			ok, err = o.sendPrimary(ctx, note)
		} else {
			ok, err = o.sendFromMenu(ctx, note)
		}
	case types.AffordanceAcceptIncoming:
		success = OutcomeAccepted
		ok, err = o.accept(ctx)
	case types.AffordanceNone:
		return OutcomeNoAffordance, nil
	default:
		return OutcomeFault, fmt.Errorf("unknown affordance %q", result.Affordance)
	}

	if err != nil {
		return OutcomeFault, err
	}
	if !ok {
		return OutcomeActionFailed, nil
	}
	o.sent++
	return success, nil
}

// note composes the invitation note from the displayed name.
func (o *Orchestrator) note(ctx context.Context) (string, bool, error) {
	name, found, err := o.session.ReadText(ctx, page.FieldFullName)
	if err != nil || !found {
		return "", false, err
	}
	return ComposeMessage(o.opts.Message, name), true, nil
}

// consume records url as taken off the queue. Repeats are ignored.
func (o *Orchestrator) consume(url string) {
	for _, u := range o.consumed {
		if u == url {
			return
		}
	}
	o.consumed = append(o.consumed, url)
}

func (o *Orchestrator) record(fn func(Recorder) error) {
	if o.opts.Recorder == nil {
		return
	}
	if err := fn(o.opts.Recorder); err != nil {
		log.Printf("[outreach] Recorder error: %v", err)
	}
}
