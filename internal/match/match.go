// Package match scores a list of option labels against a target label, used
// to pick which location entry the driver should click.
package match

import "strings"

// Result is the chosen option and how confidently it matched
type Result struct {
	Index      int    `json:"index"`
	Selected   string `json:"selected"`
	Confidence int    `json:"confidence"`
}

// BestOption returns the option that best matches the target. Scoring:
// whole-target substring match +10, each target token found +2, plus a bonus
// for shorter (more specific) options. With no match at all the first option
// is returned with confidence 0.
func BestOption(target string, options []string) Result {
	targetLower := strings.ToLower(target)
	targetParts := strings.Fields(strings.ReplaceAll(targetLower, ",", " "))

	bestMatch := -1
	bestScore := 0

	for i, option := range options {
		optionLower := strings.ToLower(option)
		score := 0

		if strings.Contains(optionLower, targetLower) {
			score += 10
		}

		for _, part := range targetParts {
			if strings.Contains(optionLower, part) {
				score += 2
			}
		}

		if score > 0 {
			if bonus := 10 - len(option)/5; bonus > 0 {
				score += bonus
			}
		}

		if score > bestScore {
			bestScore = score
			bestMatch = i
		}
	}

	if bestMatch >= 0 {
		return Result{
			Index:      bestMatch,
			Selected:   options[bestMatch],
			Confidence: bestScore,
		}
	}

	result := Result{Index: 0, Confidence: 0}
	if len(options) > 0 {
		result.Selected = options[0]
	}
	return result
}
