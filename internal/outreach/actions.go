package outreach

import (
	"context"
	"log"

	"github.com/jonathan/connexion/internal/page"
)

// step is one action in an invitation sequence.
type step struct {
	action page.Action
	text   string
}

// runSteps performs each step with pacing after it. It stops at the first
// step whose element is missing.
func (o *Orchestrator) runSteps(ctx context.Context, steps []step) (bool, error) {
	for _, s := range steps {
		ok, err := o.session.Perform(ctx, s.action, s.text)
		if err != nil {
			return false, err
		}
		if !ok {
			if o.opts.Verbose {
				log.Printf("[outreach] Action %s unavailable", s.action)
			}
			return false, nil
		}
		o.pacer.Wait()
	}
	return true, nil
}

// confirmed reports whether the confirmation element is now on the page.
func (o *Orchestrator) confirmed(ctx context.Context, field page.Field) (bool, error) {
	_, ok, err := o.session.ReadText(ctx, field)
	return ok, err
}

// sendPrimary invites through the profile's own connect button.
func (o *Orchestrator) sendPrimary(ctx context.Context, note string) (bool, error) {
	ok, err := o.runSteps(ctx, []step{
		{action: page.ActionConnect},
		{action: page.ActionAddNote},
		{action: page.ActionWriteNote, text: note},
		{action: page.ActionSendInvite},
	})
	if err != nil || !ok {
		return false, err
	}
	return o.confirmed(ctx, page.FieldPendingPrimary)
}

// sendFromMenu invites through the connect item hidden in the overflow menu.
// The menu is dismissed again if the sequence cannot finish or hits a
// recoverable fault.
func (o *Orchestrator) sendFromMenu(ctx context.Context, note string) (bool, error) {
	ok, err := o.runSteps(ctx, []step{
		{action: page.ActionOpenMenu},
		{action: page.ActionMenuConnect},
		{action: page.ActionAddNote},
		{action: page.ActionWriteNote, text: note},
		{action: page.ActionSendInvite},
	})
	if err == nil && ok {
		ok, err = o.confirmed(ctx, page.FieldPendingMenu)
	}
	switch {
	case err == nil && !ok:
		if _, dismissErr := o.session.Perform(ctx, page.ActionDismissMenu, ""); dismissErr != nil {
			return false, dismissErr
		}
	case page.IsFault(err) && !page.IsFatal(err):
		if _, dismissErr := o.session.Perform(ctx, page.ActionDismissMenu, ""); dismissErr != nil {
			log.Printf("[outreach] Could not dismiss menu: %v", dismissErr)
		}
	}
	return ok, err
}

// accept accepts the profile's pending invitation.
func (o *Orchestrator) accept(ctx context.Context) (bool, error) {
	ok, err := o.runSteps(ctx, []step{{action: page.ActionAccept}})
	if err != nil || !ok {
		return false, err
	}
	return o.confirmed(ctx, page.FieldMessageButton)
}
