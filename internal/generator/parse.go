package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(\\{.*?\\})\\s*\n?```")

// ParseDecision extracts a structured decision from raw provider output.
// Fallback chain: strict parse, fenced-block extraction, brace-span
// extraction. Anything that survives none of them is a parse failure and the
// caller fails closed to SKIP.
func ParseDecision(raw string) (*Decision, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	candidates := []string{trimmed}

	if matches := fencedBlockRe.FindStringSubmatch(trimmed); len(matches) > 1 {
		candidates = append(candidates, matches[1])
	}

	// Providers sometimes emit a reasoning preamble before the JSON; the
	// outermost brace span skips past it.
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			candidates = append(candidates, trimmed[start:end+1])
		}
	}

	var lastErr error
	for _, candidate := range candidates {
		var d Decision
		if err := json.Unmarshal([]byte(candidate), &d); err != nil {
			lastErr = err
			continue
		}
		if err := normalize(&d); err != nil {
			lastErr = err
			continue
		}
		return &d, nil
	}

	return nil, fmt.Errorf("no parseable decision in response: %w", lastErr)
}

func normalize(d *Decision) error {
	d.Action = strings.ToUpper(strings.TrimSpace(d.Action))
	switch d.Action {
	case ActionReply, ActionSkip:
	default:
		return fmt.Errorf("invalid action %q", d.Action)
	}
	if d.Action == ActionReply && strings.TrimSpace(d.Draft) == "" {
		return fmt.Errorf("REPLY decision with empty draft")
	}
	return nil
}
