// Package page defines the page-automation capability the outreach loop
// drives, and the selectors that map its fields onto a rendered profile page.
package page

import (
	"context"
	"errors"
	"fmt"
)

// Field names a piece of text the classifier or an action sequence reads.
type Field string

const (
	FieldConnectionCount Field = "connection_count"
	FieldPrimaryAction   Field = "primary_action"
	FieldSecondaryAction Field = "secondary_action"
	FieldMenuConnect     Field = "menu_connect"
	FieldFullName        Field = "full_name"
	FieldWeeklyLimit     Field = "weekly_limit"
	FieldPendingPrimary  Field = "pending_primary"
	FieldPendingMenu     Field = "pending_menu"
	FieldMessageButton   Field = "message_button"
)

// Action names a single interaction with the page.
type Action string

const (
	ActionConnect     Action = "connect"
	ActionOpenMenu    Action = "open_menu"
	ActionMenuConnect Action = "menu_connect"
	ActionAddNote     Action = "add_note"
	ActionWriteNote   Action = "write_note"
	ActionSendInvite  Action = "send_invite"
	ActionAccept      Action = "accept"
	ActionDismissMenu Action = "dismiss_menu"
)

// Session is a logged-in page-automation session positioned on one page at a
// time. Missing elements are reported as absence, never as errors; errors are
// transport faults, normally *FaultError.
type Session interface {
	// Login signs in and reports whether the account landed on its feed.
	Login(ctx context.Context, username, password string) (bool, error)
	Load(ctx context.Context, url string) error
	// ReadText returns the field's text and whether the element exists.
	ReadText(ctx context.Context, field Field) (string, bool, error)
	// Perform runs the action; text is only used by ActionWriteNote. It returns
	// false when the element the action needs is not on the page.
	Perform(ctx context.Context, action Action, text string) (bool, error)
	Close() error
}

// FaultError is a transport-level failure. Fatal faults mean the session can
// no longer be used; others only spoil the current call.
type FaultError struct {
	Op      string
	Message string
	Fatal   bool
	Cause   error
}

func (e *FaultError) Error() string {
	kind := "page fault"
	if e.Fatal {
		kind = "session fault"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", kind, e.Op, e.Message)
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}

// IsFault reports whether err is a transport fault of either kind.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

// IsFatal reports whether err makes the session unusable.
func IsFatal(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe) && fe.Fatal
}
