package generator

import (
	"context"
	"fmt"
)

// StubProvider is the deterministic stand-in used when no generator
// credential is configured. It always returns a fixed placeholder REPLY so
// the rest of the pipeline can be exercised.
type StubProvider struct {
	siteURL string
}

// NewStubProvider creates a stub provider
func NewStubProvider(siteURL string) *StubProvider {
	return &StubProvider{siteURL: siteURL}
}

func (s *StubProvider) Name() string {
	return "stub"
}

// Draft returns a fixed placeholder decision
func (s *StubProvider) Draft(ctx context.Context, req Request) (*Decision, error) {
	trend := ""
	if len(req.Trends) > 0 {
		trend = req.Trends[0]
	}
	return &Decision{
		Action: ActionReply,
		Reason: "Movie/TV intent detected",
		Draft:  fmt.Sprintf("[MOCK] Check out %s for free streaming!", s.siteURL),
		Trend:  trend,
	}, nil
}
