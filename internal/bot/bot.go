// Package bot composes the guard, schedule, trend cache, term pool and draft
// generator into the decision operations the HTTP layer exposes.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek9871/xbot/internal/generator"
	"github.com/abhishek9871/xbot/internal/guard"
	"github.com/abhishek9871/xbot/internal/logging"
	"github.com/abhishek9871/xbot/internal/match"
	"github.com/abhishek9871/xbot/internal/schedule"
	"github.com/abhishek9871/xbot/internal/store"
	"github.com/abhishek9871/xbot/internal/terms"
)

// defaultTrends is returned when no trends are cached for a region; the
// prompt requires at least one trend-like token.
var defaultTrends = []string{"#Movies", "#Netflix", "#Streaming"}

// Bot is the decision orchestrator
type Bot struct {
	store              *store.Store
	guard              *guard.Guard
	gen                generator.Generator
	terms              *terms.Manager
	genTimeout         time.Duration
	dailyWarnThreshold int
}

// New creates the orchestrator with its collaborators injected
func New(s *store.Store, g *guard.Guard, gen generator.Generator, tm *terms.Manager, genTimeout time.Duration, dailyWarnThreshold int) *Bot {
	return &Bot{
		store:              s,
		guard:              g,
		gen:                gen,
		terms:              tm,
		genTimeout:         genTimeout,
		dailyWarnThreshold: dailyWarnThreshold,
	}
}

// AnalyzeRequest is a candidate tweet submitted for a decision
type AnalyzeRequest struct {
	TweetID       string `json:"tweet_id"`
	TweetText     string `json:"tweet_text"`
	UserHandle    string `json:"user_handle"`
	ParentText    string `json:"parent_text,omitempty"`
	ThreadContext string `json:"thread_context,omitempty"`
	AuthorBio     string `json:"author_bio,omitempty"`
	MovieTitle    string `json:"movie_title,omitempty"`
	MovieYear     string `json:"movie_year,omitempty"`
	Category      string `json:"category,omitempty"`
}

// AnalyzeResponse is always well-formed; downstream failures surface as a
// SKIP with an explanatory reason, never as an error.
type AnalyzeResponse struct {
	Action        string  `json:"action"`
	Reason        string  `json:"reason"`
	Draft         *string `json:"draft"`
	Language      string  `json:"language"`
	TrendInjected *string `json:"trend_injected"`
}

// Analyze runs the decision pipeline for one candidate tweet.
//
// A REPLY decision is not persisted here; only the explicit LogReply call
// records it, so a drafted-but-never-posted reply leaves no trace and the
// tweet stays eligible for re-analysis.
func (b *Bot) Analyze(ctx context.Context, req AnalyzeRequest) AnalyzeResponse {
	skip, reason, err := b.guard.Check(req.TweetID, req.UserHandle)
	if err != nil {
		logging.Error("Guard check failed", "tweet_id", req.TweetID, "error", err)
		return skipResponse(fmt.Sprintf("Guard error: %v", err), "")
	}
	if skip {
		return skipResponse(reason, "")
	}

	target := schedule.CurrentTarget()
	trends := b.TrendsFor(target.Region)

	movieTitle := req.MovieTitle
	if movieTitle != "" && req.MovieYear != "" {
		movieTitle = fmt.Sprintf("%s (%s)", movieTitle, req.MovieYear)
	}

	parentText := req.ParentText
	if parentText == "" {
		parentText = req.ThreadContext
	}

	genCtx, cancel := context.WithTimeout(ctx, b.genTimeout)
	defer cancel()

	decision, err := b.gen.Draft(genCtx, generator.Request{
		TweetText:  req.TweetText,
		ParentText: parentText,
		AuthorBio:  req.AuthorBio,
		Region:     target.Region,
		LangCode:   target.LangCode,
		LangName:   target.Language,
		Trends:     trends,
		MovieTitle: movieTitle,
		Category:   req.Category,
	})
	if err != nil {
		logging.Warn("Draft generation failed", "tweet_id", req.TweetID, "provider", b.gen.Name(), "error", err)
		return skipResponse(fmt.Sprintf("LLM error: %v", err), target.Language)
	}

	if decision.Action == generator.ActionSkip {
		scanned := &store.ScannedTweet{
			TweetID:    req.TweetID,
			ScannedAt:  time.Now().UTC(),
			SkipReason: decision.Reason,
		}
		if err := b.store.InsertScanned(scanned); err != nil {
			logging.Error("Failed to record scanned tweet", "tweet_id", req.TweetID, "error", err)
		}
		return AnalyzeResponse{
			Action:        generator.ActionSkip,
			Reason:        decision.Reason,
			Language:      target.Language,
			TrendInjected: optional(decision.Trend),
		}
	}

	logging.Info("Reply drafted", "tweet_id", req.TweetID, "lang", target.LangCode, "region", target.Region)

	return AnalyzeResponse{
		Action:        generator.ActionReply,
		Reason:        decision.Reason,
		Draft:         optional(decision.Draft),
		Language:      target.Language,
		TrendInjected: optional(decision.Trend),
	}
}

// ScheduleInfo is the /schedule payload
type ScheduleInfo struct {
	Region        string   `json:"region"`
	Location      string   `json:"location"`
	Language      string   `json:"language"`
	LangCode      string   `json:"lang_code"`
	ContentRegion string   `json:"content_region"`
	Keywords      []string `json:"keywords"`
	CurrentTrends []string `json:"current_trends"`
}

// Schedule returns the current target with its cached trends
func (b *Bot) Schedule() ScheduleInfo {
	target := schedule.CurrentTarget()
	return ScheduleInfo{
		Region:        target.Region,
		Location:      target.Location,
		Language:      target.Language,
		LangCode:      target.LangCode,
		ContentRegion: target.ContentRegion,
		Keywords:      target.Keywords,
		CurrentTrends: b.TrendsFor(target.Region),
	}
}

// TrendsFor returns cached trends for a region, or the non-empty default
// list. Trend age is advisory only; any cached value is accepted.
func (b *Bot) TrendsFor(region string) []string {
	trends, err := b.store.GetTrends(region)
	if err != nil {
		logging.Error("Trend lookup failed", "region", region, "error", err)
	}
	if len(trends) == 0 {
		return defaultTrends
	}
	return trends
}

// LogReplyRequest confirms an externally-posted reply
type LogReplyRequest struct {
	TweetID    string `json:"tweet_id"`
	UserHandle string `json:"user_handle"`
	ReplyText  string `json:"reply_text"`
	SearchTerm string `json:"search_term,omitempty"`
	Sentiment  string `json:"sentiment,omitempty"`
}

// LogReply persists a confirmed reply using the current slot's region and
// language. A duplicate tweet_id is silently ignored.
func (b *Bot) LogReply(req LogReplyRequest) error {
	target := schedule.CurrentTarget()
	err := b.store.InsertReply(&store.RepliedTweet{
		TweetID:    req.TweetID,
		UserHandle: req.UserHandle,
		Timestamp:  time.Now().UTC(),
		Region:     target.Region,
		Language:   target.LangCode,
		ReplyText:  req.ReplyText,
		SearchTerm: req.SearchTerm,
		Sentiment:  req.Sentiment,
	})
	if err != nil {
		return fmt.Errorf("log reply: %w", err)
	}
	logging.Info("Reply logged", "tweet_id", req.TweetID, "user", req.UserHandle, "region", target.Region)
	return nil
}

// UpdateTrends replaces the trend cache for a region and returns the count
func (b *Bot) UpdateTrends(region string, trends []string) (int, error) {
	if err := b.store.UpsertTrends(region, trends, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("update trends: %w", err)
	}
	logging.Info("Trends updated", "region", region, "count", len(trends))
	return len(trends), nil
}

// Stats returns aggregate reply activity
func (b *Bot) Stats() (*store.Stats, error) {
	return b.store.GetStats()
}

// Health is the /check-health payload
type Health struct {
	Status   string       `json:"status"`
	Warnings []string     `json:"warnings"`
	Stats    *store.Stats `json:"stats"`
}

// CheckHealth derives the health verdict from stats
func (b *Bot) CheckHealth() (*Health, error) {
	stats, err := b.store.GetStats()
	if err != nil {
		return nil, err
	}

	warnings := []string{}
	if stats.RepliesToday >= b.dailyWarnThreshold {
		warnings = append(warnings, fmt.Sprintf("Daily limit approaching (%d)", b.dailyWarnThreshold))
	}

	status := "HEALTHY"
	if len(warnings) > 0 {
		status = "WARNING"
	}

	return &Health{Status: status, Warnings: warnings, Stats: stats}, nil
}

// SmartSearch picks the next discovery search term for the current slot
func (b *Bot) SmartSearch(ctx context.Context) terms.Selection {
	target := schedule.CurrentTarget()
	return b.terms.Next(ctx, target.LangCode, target.ContentRegion)
}

// WarmTermPool pre-generates terms for the current slot's language, run as a
// background job so /smart-search rarely pays the generation cost inline.
func (b *Bot) WarmTermPool(ctx context.Context) error {
	target := schedule.CurrentTarget()
	b.terms.Generate(ctx, target.LangCode, target.ContentRegion)
	return nil
}

// SelectOption picks the best-matching option label for a target
func (b *Bot) SelectOption(target string, options []string) match.Result {
	return match.BestOption(target, options)
}

func skipResponse(reason, language string) AnalyzeResponse {
	return AnalyzeResponse{
		Action:   generator.ActionSkip,
		Reason:   reason,
		Language: language,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
