// Package generator produces localized reply drafts for candidate tweets.
// Providers are untrusted text-in-JSON-out services; anything malformed is
// downgraded to a SKIP decision by the caller.
package generator

import "context"

// Decision actions
const (
	ActionReply = "REPLY"
	ActionSkip  = "SKIP"
)

// Generator defines the interface for draft-generation providers
type Generator interface {
	// Name returns the provider name (e.g. "groq")
	Name() string

	// Draft analyzes a tweet and produces a reply decision
	Draft(ctx context.Context, req Request) (*Decision, error)
}

// Request is the assembled context for one draft
type Request struct {
	TweetText  string
	ParentText string
	AuthorBio  string
	Region     string
	LangCode   string
	LangName   string
	Trends     []string
	MovieTitle string
	Category   string
}

// Decision is the provider's structured verdict
type Decision struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Draft  string `json:"draft"`
	Trend  string `json:"trend"`
}
