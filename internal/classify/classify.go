// Package classify derives a profile's connection count, available action,
// and rate-limit state from a loaded page.
package classify

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/connexion/internal/page"
	"github.com/jonathan/connexion/internal/types"
)

// OverflowCount is reported when the page shows "500+".
const OverflowCount = 500

const (
	labelConnect = "Connect"
	labelAccept  = "Accept"
)

// Classify inspects the page currently loaded in s. Missing elements lower
// the signal (zero connections, no affordance) rather than failing; only
// transport faults are returned.
func Classify(ctx context.Context, s page.Session) (types.ClassificationResult, error) {
	var result types.ClassificationResult

	count, err := ConnectionCount(ctx, s)
	if err != nil {
		return result, err
	}
	result.ConnectionCount = count

	affordance, err := DetectAffordance(ctx, s)
	if err != nil {
		return result, err
	}
	result.Affordance = affordance

	limited, err := WeeklyLimitReached(ctx, s)
	if err != nil {
		return result, err
	}
	result.WeeklyLimitReached = limited

	return result, nil
}

// ConnectionCount reads the first bold numeric label. Profiles that only
// show followers, or nothing, count as zero.
func ConnectionCount(ctx context.Context, s page.Session) (int, error) {
	text, ok, err := s.ReadText(ctx, page.FieldConnectionCount)
	if err != nil || !ok {
		return 0, err
	}
	return ParseConnectionCount(text), nil
}

// ParseConnectionCount converts a connection label into a count.
func ParseConnectionCount(text string) int {
	text = strings.TrimSpace(text)
	if text == "500+" {
		return OverflowCount
	}
	digits := strings.ReplaceAll(text, ",", "")
	if digits == "" {
		return 0
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// DetectAffordance checks, in priority order, for a direct connect button,
// an incoming invitation, and a connect item hidden in the overflow menu.
// The first match wins.
func DetectAffordance(ctx context.Context, s page.Session) (types.Affordance, error) {
	primary, _, err := s.ReadText(ctx, page.FieldPrimaryAction)
	if err != nil {
		return types.AffordanceNone, err
	}
	secondary, _, err := s.ReadText(ctx, page.FieldSecondaryAction)
	if err != nil {
		return types.AffordanceNone, err
	}

	if primary == labelConnect || secondary == labelConnect {
		return types.AffordanceDirectConnect, nil
	}
	if primary == labelAccept {
		return types.AffordanceAcceptIncoming, nil
	}

	menu, ok, err := s.ReadText(ctx, page.FieldMenuConnect)
	if err != nil {
		return types.AffordanceNone, err
	}
	if ok && menu == labelConnect {
		return types.AffordanceMenuConnect, nil
	}

	return types.AffordanceNone, nil
}

// WeeklyLimitReached probes for the weekly invitation limit banner.
func WeeklyLimitReached(ctx context.Context, s page.Session) (bool, error) {
	_, ok, err := s.ReadText(ctx, page.FieldWeeklyLimit)
	if err != nil {
		return false, err
	}
	return ok, nil
}
