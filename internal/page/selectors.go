package page

// Selectors are CSS selectors for the profile page. Several fields are
// positional: the page renders its action buttons as a flat list of labels.
const (
	SelectorBoldLabel     = "span.t-bold"
	SelectorButtonLabel   = "span.artdeco-button__text"
	SelectorMenuItem      = "div.artdeco-dropdown__item.artdeco-dropdown__item--is-dropdown > span"
	SelectorFullName      = "h1.text-heading-xlarge"
	SelectorWeeklyLimit   = "h2#ip-fuse-limit-alert__header"
	SelectorPendingButton = `button.pvs-profile-actions__action[aria-label*="Pending"]`
	SelectorPendingItem   = `div.artdeco-dropdown__item[aria-label*="Pending"]`
	SelectorMessageButton = `button.artdeco-button--primary[aria-label*="Message"]`

	SelectorConnectButton = `button.pvs-profile-actions__action[aria-label*="Invite"]`
	SelectorMoreButton    = `button.artdeco-dropdown__trigger.pvs-profile-actions__action[aria-label="More actions"]`
	SelectorMenuInvite    = `div[aria-label*="Invite"][aria-label*="to connect"]`
	SelectorAddNote       = `button[aria-label="Add a note"]`
	SelectorNoteInput     = `textarea[name="message"]`
	SelectorSendNow       = `button[aria-label="Send now"]`
	SelectorAcceptButton  = `button.pvs-profile-actions__action[aria-label*="Accept"]`
	SelectorDismiss       = `button[aria-label="Dismiss"]`
)

// Button label positions (0-based) of the primary action slot and the slot
// used when the profile is followed.
const (
	PrimaryActionIndex   = 5
	SecondaryActionIndex = 7
)

// MoreButtonIndex picks the profile's own "More actions" button; the first
// match belongs to the sticky header.
const MoreButtonIndex = 1

// ActionSelectors maps each clickable action to its target element.
var ActionSelectors = map[Action]string{
	ActionConnect:     SelectorConnectButton,
	ActionOpenMenu:    SelectorMoreButton,
	ActionMenuConnect: SelectorMenuInvite,
	ActionAddNote:     SelectorAddNote,
	ActionWriteNote:   SelectorNoteInput,
	ActionSendInvite:  SelectorSendNow,
	ActionAccept:      SelectorAcceptButton,
	ActionDismissMenu: SelectorDismiss,
}
