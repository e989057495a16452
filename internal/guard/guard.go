// Package guard decides whether a candidate tweet is still eligible for a
// reply: not already replied to, not already scanned, and its author under
// the rolling reply cap.
package guard

import (
	"fmt"
	"time"

	"github.com/abhishek9871/xbot/internal/store"
)

// Reason identifies why a tweet was rejected
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonAlreadyReplied Reason = "Already replied to this tweet"
	ReasonAlreadyScanned Reason = "Already scanned this tweet"
	ReasonUserCooldown   Reason = "User cooldown (max %d replies per %dh)"
)

// Guard checks reply eligibility against the store
type Guard struct {
	store          *store.Store
	maxPerUser     int
	cooldownWindow time.Duration
}

// New creates a Guard with the given per-user cap and sliding window
func New(s *store.Store, maxPerUser int, cooldownWindow time.Duration) *Guard {
	return &Guard{
		store:          s,
		maxPerUser:     maxPerUser,
		cooldownWindow: cooldownWindow,
	}
}

// Check runs the eligibility rules in order; the first match wins.
// A skip result is an expected outcome, not an error.
func (g *Guard) Check(tweetID, userHandle string) (bool, string, error) {
	replied, err := g.store.HasReplied(tweetID)
	if err != nil {
		return false, "", fmt.Errorf("check replied: %w", err)
	}
	if replied {
		return true, string(ReasonAlreadyReplied), nil
	}

	scanned, err := g.store.HasScanned(tweetID)
	if err != nil {
		return false, "", fmt.Errorf("check scanned: %w", err)
	}
	if scanned {
		return true, string(ReasonAlreadyScanned), nil
	}

	// Sliding window from now, not calendar-aligned
	cutoff := time.Now().UTC().Add(-g.cooldownWindow)
	count, err := g.store.CountRepliesSince(userHandle, cutoff)
	if err != nil {
		return false, "", fmt.Errorf("check cooldown: %w", err)
	}
	if count >= g.maxPerUser {
		reason := fmt.Sprintf(string(ReasonUserCooldown), g.maxPerUser, int(g.cooldownWindow.Hours()))
		return true, reason, nil
	}

	return false, "", nil
}
