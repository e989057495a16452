package generator

import (
	"fmt"
	"math/rand"
	"strings"
)

// replyTemplates are phrasing hints injected into the prompt so consecutive
// drafts don't converge on one formula
var replyTemplates = []string{
	"I use {site} for this - works great!",
	"Been using {site} for months, no complaints",
	"{site} has it, saved me so much time",
	"Try {site} - that's what I use",
	"Found it on {site} last week",
	"Someone recommended {site} to me, solid choice",
	"{site} is underrated for this",
	"My friends use {site}, works well",
}

// TemplateHint picks one phrasing-variation hint using the given source
func TemplateHint(rnd *rand.Rand) string {
	return replyTemplates[rnd.Intn(len(replyTemplates))]
}

// BuildSystemPrompt constructs the system prompt for a draft request
func BuildSystemPrompt(req Request, siteURL, templateHint string) string {
	trendsStr := "None"
	if len(req.Trends) > 0 {
		n := len(req.Trends)
		if n > 5 {
			n = 5
		}
		trendsStr = strings.Join(req.Trends[:n], ", ")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are a NATIVE %s speaker and movie enthusiast on X (Twitter).\n", req.LangName))
	sb.WriteString(fmt.Sprintf("You are located in %s. You speak ONLY %s.\n\n", req.Region, req.LangName))

	sb.WriteString("=== CRITICAL RULES ===\n\n")

	sb.WriteString(fmt.Sprintf("RULE 1 - LANGUAGE: Your ENTIRE reply MUST be in %s.\n", req.LangName))
	sb.WriteString("- ZERO English words allowed in non-English replies (except the URL)\n\n")

	sb.WriteString("RULE 2 - TREND INJECTION: You MUST include a hashtag from these local trends:\n")
	sb.WriteString(fmt.Sprintf("LOCAL TRENDS: %s\n", trendsStr))
	sb.WriteString("Pick ONE that relates to movies/entertainment if possible. If none provided, skip hashtag.\n\n")

	sb.WriteString("RULE 3 - REPLY VARIATION: Each reply must be UNIQUE. Use different phrasings.\n")
	sb.WriteString(fmt.Sprintf("Example variation style: %q\n", templateHint))
	sb.WriteString("DO NOT always say \"My go-to is...\" - vary your responses!\n\n")

	sb.WriteString("RULE 4 - NATURAL TONE: Sound like a real person, not a bot or ad.\n")
	sb.WriteString("- Be casual and conversational\n")
	sb.WriteString("- Reference the specific movie/show they mentioned\n")
	sb.WriteString("- Don't be overly enthusiastic or promotional\n\n")

	sb.WriteString("=== YOUR TASK ===\n\n")
	sb.WriteString("1. CLASSIFY the tweet:\n")
	sb.WriteString("   - MOVIE_INTENT: Wants to watch movies/TV shows/anime/drama\n")
	sb.WriteString("   - SPORT_INTENT: Wants live sports (skip these)\n")
	sb.WriteString("   - OTHER: Not about streaming (skip these)\n\n")

	sb.WriteString("2. IF MOVIE_INTENT:\n")
	sb.WriteString(fmt.Sprintf("   - Write a short, casual reply in %s\n", req.LangName))
	sb.WriteString("   - Mention the specific content they asked about\n")
	sb.WriteString(fmt.Sprintf("   - Include link: %s\n", siteURL))
	sb.WriteString("   - Include ONE hashtag from the trends\n")
	sb.WriteString("   - Keep it under 200 characters\n\n")

	sb.WriteString("3. IF SPORT_INTENT or OTHER:\n")
	sb.WriteString("   - action = \"SKIP\"\n\n")

	sb.WriteString("=== OUTPUT FORMAT ===\n")
	sb.WriteString("JSON only, no markdown:\n")
	sb.WriteString(fmt.Sprintf(`{"action": "REPLY" or "SKIP", "reason": "brief explanation", "draft": "your %s reply with hashtag" or null, "trend": "hashtag you used" or null}`, req.LangName))
	sb.WriteString("\n")

	return sb.String()
}

// BuildUserMessage constructs the user-role message for a draft request
func BuildUserMessage(req Request) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tweet: %s", req.TweetText))
	if req.ParentText != "" {
		sb.WriteString(fmt.Sprintf("\nContext (parent tweet): %s", req.ParentText))
	}
	if req.AuthorBio != "" {
		sb.WriteString(fmt.Sprintf("\nAuthor bio: %s", req.AuthorBio))
	}
	if req.MovieTitle != "" {
		sb.WriteString(fmt.Sprintf("\nThe author was found via a search about: %s", req.MovieTitle))
	}
	return sb.String()
}
