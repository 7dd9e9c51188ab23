package types

// CandidateProfile is a discovered search result queued for outreach.
// URL is the unique key.
type CandidateProfile struct {
	Title   string `json:"title"`
	URL     string `json:"link"`
	Snippet string `json:"snippet"`
}

// Affordance is the single action a loaded profile page currently permits.
type Affordance string

const (
	AffordanceNone           Affordance = "none"
	AffordanceDirectConnect  Affordance = "direct_connect"
	AffordanceMenuConnect    Affordance = "menu_connect"
	AffordanceAcceptIncoming Affordance = "accept_incoming"
)

// ClassificationResult is derived from a loaded profile page and never persisted.
type ClassificationResult struct {
	ConnectionCount    int        `json:"connection_count"`
	Affordance         Affordance `json:"affordance"`
	WeeklyLimitReached bool       `json:"weekly_limit_reached"`
}

// CanConnect reports whether the affordance leads to an invitation.
func (a Affordance) CanConnect() bool {
	return a == AffordanceDirectConnect || a == AffordanceMenuConnect
}
