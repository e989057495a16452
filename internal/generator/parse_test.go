package generator

import (
	"strings"
	"testing"
)

func TestParseDecisionStrictJSON(t *testing.T) {
	raw := `{"action": "REPLY", "reason": "Movie intent", "draft": "Je l'ai vu sur le site #Cinéma", "trend": "#Cinéma"}`

	d, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if d.Action != ActionReply {
		t.Errorf("expected REPLY, got %q", d.Action)
	}
	if d.Trend != "#Cinéma" {
		t.Errorf("expected trend passthrough, got %q", d.Trend)
	}
}

func TestParseDecisionFencedBlock(t *testing.T) {
	raw := "```json\n{\"action\": \"SKIP\", \"reason\": \"Sports tweet\", \"draft\": null, \"trend\": null}\n```"

	d, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if d.Action != ActionSkip {
		t.Errorf("expected SKIP, got %q", d.Action)
	}
	if d.Draft != "" {
		t.Errorf("expected empty draft for null, got %q", d.Draft)
	}
}

func TestParseDecisionFencedBlockNoLanguageTag(t *testing.T) {
	raw := "```\n{\"action\": \"REPLY\", \"reason\": \"ok\", \"draft\": \"some reply\"}\n```"

	d, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if d.Action != ActionReply {
		t.Errorf("expected REPLY, got %q", d.Action)
	}
}

func TestParseDecisionReasoningPreamble(t *testing.T) {
	raw := `Let me think about this tweet. The user is asking where to watch a movie,
which is clearly movie intent, so I should reply.

{"action": "REPLY", "reason": "Movie intent", "draft": "Found it on the site!", "trend": null}`

	d, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if d.Action != ActionReply || d.Draft != "Found it on the site!" {
		t.Errorf("unexpected decision: %+v", d)
	}
}

func TestParseDecisionLowercaseActionNormalized(t *testing.T) {
	raw := `{"action": "reply", "reason": "ok", "draft": "hello"}`

	d, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if d.Action != ActionReply {
		t.Errorf("expected normalized REPLY, got %q", d.Action)
	}
}

func TestParseDecisionFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n  "},
		{"prose only", "I cannot help with that request."},
		{"invalid action", `{"action": "MAYBE", "reason": "unsure"}`},
		{"reply without draft", `{"action": "REPLY", "reason": "ok", "draft": ""}`},
		{"unbalanced braces", `{"action": "REPLY", "reason": "truncated`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDecision(tt.raw); err == nil {
				t.Errorf("expected error for %q", tt.raw)
			}
		})
	}
}

func TestBuildSystemPromptIncludesContext(t *testing.T) {
	req := Request{
		Region:   "Paris",
		LangCode: "fr",
		LangName: "French",
		Trends:   []string{"#CinemaFrancais", "#Oscars"},
	}

	prompt := BuildSystemPrompt(req, "streamixapp.pages.dev", "Try {site} - that's what I use")

	for _, want := range []string{"French", "Paris", "#CinemaFrancais", "streamixapp.pages.dev"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptCapsTrends(t *testing.T) {
	req := Request{
		Region:   "Paris",
		LangName: "French",
		Trends:   []string{"#a", "#b", "#c", "#d", "#e", "#f", "#g"},
	}

	prompt := BuildSystemPrompt(req, "example.com", "hint")
	if strings.Contains(prompt, "#f") || strings.Contains(prompt, "#g") {
		t.Error("prompt should only include the first 5 trends")
	}
}

func TestBuildUserMessage(t *testing.T) {
	msg := BuildUserMessage(Request{
		TweetText:  "where can I watch Dune 2",
		ParentText: "talking about sci-fi movies",
		MovieTitle: "Dune: Part Two (2024)",
	})

	if !strings.Contains(msg, "where can I watch Dune 2") {
		t.Error("message missing tweet text")
	}
	if !strings.Contains(msg, "talking about sci-fi movies") {
		t.Error("message missing parent context")
	}
	if !strings.Contains(msg, "Dune: Part Two (2024)") {
		t.Error("message missing movie context")
	}
}
