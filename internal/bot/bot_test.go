package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abhishek9871/xbot/internal/generator"
	"github.com/abhishek9871/xbot/internal/guard"
	"github.com/abhishek9871/xbot/internal/store"
	"github.com/abhishek9871/xbot/internal/terms"
)

// countingGenerator returns a scripted decision and counts invocations
type countingGenerator struct {
	decision *generator.Decision
	err      error
	calls    int
	lastReq  generator.Request
}

func (g *countingGenerator) Name() string { return "counting" }

func (g *countingGenerator) Draft(ctx context.Context, req generator.Request) (*generator.Decision, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.decision, nil
}

func replyDecision() *generator.Decision {
	return &generator.Decision{
		Action: generator.ActionReply,
		Reason: "Movie intent",
		Draft:  "Found it on streamixapp.pages.dev!",
		Trend:  "#Movies",
	}
}

func newTestBot(t *testing.T, gen generator.Generator) (*Bot, *store.Store) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	g := guard.New(s, 2, 24*time.Hour)
	tm := terms.New(s, nil, 0.6, 8, 10, nil)
	return New(s, g, gen, tm, 5*time.Second, 150), s
}

func TestAnalyzeReplyNotPersistedUntilLogged(t *testing.T) {
	gen := &countingGenerator{decision: replyDecision()}
	b, s := newTestBot(t, gen)

	req := AnalyzeRequest{TweetID: "t1", TweetText: "where can I watch Dune 2", UserHandle: "alice"}

	resp := b.Analyze(context.Background(), req)
	if resp.Action != generator.ActionReply {
		t.Fatalf("expected REPLY, got %+v", resp)
	}
	if resp.Draft == nil || *resp.Draft == "" {
		t.Fatal("expected a non-empty draft")
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 generator call, got %d", gen.calls)
	}

	// Drafting must not record the reply; only LogReply does
	replied, err := s.HasReplied("t1")
	if err != nil {
		t.Fatalf("HasReplied failed: %v", err)
	}
	if replied {
		t.Fatal("reply should not be persisted before LogReply")
	}

	// Re-analyzing before confirmation runs the full pipeline again
	resp = b.Analyze(context.Background(), req)
	if resp.Action != generator.ActionReply || gen.calls != 2 {
		t.Fatalf("expected second full analysis, got action=%s calls=%d", resp.Action, gen.calls)
	}

	if err := b.LogReply(LogReplyRequest{TweetID: "t1", UserHandle: "alice", ReplyText: *resp.Draft}); err != nil {
		t.Fatalf("LogReply failed: %v", err)
	}

	// Now the guard short-circuits without touching the generator
	resp = b.Analyze(context.Background(), req)
	if resp.Action != generator.ActionSkip || resp.Reason != string(guard.ReasonAlreadyReplied) {
		t.Fatalf("expected already-replied skip, got %+v", resp)
	}
	if gen.calls != 2 {
		t.Errorf("generator should not run after the reply is logged, got %d calls", gen.calls)
	}
}

func TestAnalyzeGeneratorSkipRecordsScanned(t *testing.T) {
	gen := &countingGenerator{decision: &generator.Decision{
		Action: generator.ActionSkip,
		Reason: "Not about streaming",
	}}
	b, s := newTestBot(t, gen)

	req := AnalyzeRequest{TweetID: "t1", TweetText: "go sports team", UserHandle: "alice"}

	resp := b.Analyze(context.Background(), req)
	if resp.Action != generator.ActionSkip || resp.Reason != "Not about streaming" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	scanned, err := s.HasScanned("t1")
	if err != nil {
		t.Fatalf("HasScanned failed: %v", err)
	}
	if !scanned {
		t.Fatal("generator SKIP should record the tweet as scanned")
	}

	// The scanned record short-circuits the next analysis
	resp = b.Analyze(context.Background(), req)
	if resp.Reason != string(guard.ReasonAlreadyScanned) {
		t.Fatalf("expected already-scanned skip, got %+v", resp)
	}
	if gen.calls != 1 {
		t.Errorf("generator should not rerun on a scanned tweet, got %d calls", gen.calls)
	}
}

func TestAnalyzeGeneratorErrorLeavesTweetEligible(t *testing.T) {
	gen := &countingGenerator{err: fmt.Errorf("upstream timeout")}
	b, s := newTestBot(t, gen)

	req := AnalyzeRequest{TweetID: "t1", TweetText: "where to watch", UserHandle: "alice"}

	resp := b.Analyze(context.Background(), req)
	if resp.Action != generator.ActionSkip {
		t.Fatalf("expected SKIP on generator error, got %+v", resp)
	}

	// A transient failure is not a verdict; the tweet stays eligible
	scanned, _ := s.HasScanned("t1")
	if scanned {
		t.Error("generator errors should not mark the tweet as scanned")
	}

	b.Analyze(context.Background(), req)
	if gen.calls != 2 {
		t.Errorf("expected retry to reach the generator, got %d calls", gen.calls)
	}
}

func TestAnalyzeUserCooldown(t *testing.T) {
	gen := &countingGenerator{decision: replyDecision()}
	b, _ := newTestBot(t, gen)

	b.LogReply(LogReplyRequest{TweetID: "t1", UserHandle: "alice", ReplyText: "one"})
	b.LogReply(LogReplyRequest{TweetID: "t2", UserHandle: "alice", ReplyText: "two"})

	resp := b.Analyze(context.Background(), AnalyzeRequest{TweetID: "t3", TweetText: "new tweet", UserHandle: "alice"})
	if resp.Action != generator.ActionSkip {
		t.Fatalf("expected cooldown skip, got %+v", resp)
	}
	if gen.calls != 0 {
		t.Errorf("generator should not run for a cooled-down author, got %d calls", gen.calls)
	}

	// A different author is unaffected
	resp = b.Analyze(context.Background(), AnalyzeRequest{TweetID: "t4", TweetText: "new tweet", UserHandle: "bob"})
	if resp.Action != generator.ActionReply {
		t.Errorf("expected REPLY for a fresh author, got %+v", resp)
	}
}

func TestAnalyzePassesContextToGenerator(t *testing.T) {
	gen := &countingGenerator{decision: replyDecision()}
	b, _ := newTestBot(t, gen)

	target := b.Schedule()
	if _, err := b.UpdateTrends(target.Region, []string{"#CustomTrend"}); err != nil {
		t.Fatalf("UpdateTrends failed: %v", err)
	}

	b.Analyze(context.Background(), AnalyzeRequest{
		TweetID:       "t1",
		TweetText:     "anyone seen this",
		UserHandle:    "alice",
		ThreadContext: "talking about sci-fi",
		MovieTitle:    "Dune: Part Two",
		MovieYear:     "2024",
	})

	if gen.lastReq.MovieTitle != "Dune: Part Two (2024)" {
		t.Errorf("expected formatted movie title, got %q", gen.lastReq.MovieTitle)
	}
	if gen.lastReq.ParentText != "talking about sci-fi" {
		t.Errorf("expected thread context as parent fallback, got %q", gen.lastReq.ParentText)
	}
	if len(gen.lastReq.Trends) != 1 || gen.lastReq.Trends[0] != "#CustomTrend" {
		t.Errorf("expected cached trends passed through, got %v", gen.lastReq.Trends)
	}
	if gen.lastReq.Region != target.Region || gen.lastReq.LangCode != target.LangCode {
		t.Errorf("expected current slot context, got %+v", gen.lastReq)
	}
}

func TestTrendsForDefaultsWhenEmpty(t *testing.T) {
	b, _ := newTestBot(t, &countingGenerator{decision: replyDecision()})

	trends := b.TrendsFor("Nowhere")
	if len(trends) == 0 {
		t.Fatal("expected non-empty default trends")
	}

	if _, err := b.UpdateTrends("Paris", []string{"#CinemaFrancais", "#Oscars"}); err != nil {
		t.Fatalf("UpdateTrends failed: %v", err)
	}
	trends = b.TrendsFor("Paris")
	if len(trends) != 2 || trends[0] != "#CinemaFrancais" {
		t.Errorf("expected cached trends, got %v", trends)
	}
}

func TestScheduleIncludesKeywordsAndTrends(t *testing.T) {
	b, _ := newTestBot(t, &countingGenerator{decision: replyDecision()})

	info := b.Schedule()
	if info.Region == "" || info.LangCode == "" || info.ContentRegion == "" {
		t.Errorf("incomplete schedule info: %+v", info)
	}
	if len(info.Keywords) == 0 {
		t.Error("expected non-empty keyword list")
	}
	if len(info.CurrentTrends) == 0 {
		t.Error("expected non-empty trends")
	}
}

func TestLogReplyDuplicateIgnored(t *testing.T) {
	b, s := newTestBot(t, &countingGenerator{decision: replyDecision()})

	if err := b.LogReply(LogReplyRequest{TweetID: "t1", UserHandle: "alice", ReplyText: "first"}); err != nil {
		t.Fatalf("LogReply failed: %v", err)
	}
	if err := b.LogReply(LogReplyRequest{TweetID: "t1", UserHandle: "bob", ReplyText: "second"}); err != nil {
		t.Fatalf("duplicate LogReply should be silent, got %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalReplies != 1 {
		t.Errorf("expected 1 reply after duplicate log, got %d", stats.TotalReplies)
	}
}

func TestCheckHealthWarnsNearDailyLimit(t *testing.T) {
	b, s := newTestBot(t, &countingGenerator{decision: replyDecision()})

	h, err := b.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if h.Status != "HEALTHY" || len(h.Warnings) != 0 {
		t.Errorf("expected healthy verdict on empty store, got %+v", h)
	}

	now := time.Now().UTC()
	for i := 0; i < 150; i++ {
		s.InsertReply(&store.RepliedTweet{
			TweetID:    fmt.Sprintf("t%d", i),
			UserHandle: fmt.Sprintf("user%d", i),
			Timestamp:  now,
		})
	}

	h, err = b.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if h.Status != "WARNING" || len(h.Warnings) == 0 {
		t.Errorf("expected warning at the daily threshold, got %+v", h)
	}
}

func TestSelectOption(t *testing.T) {
	b, _ := newTestBot(t, &countingGenerator{decision: replyDecision()})

	r := b.SelectOption("Paris, France", []string{"Paris, Texas", "Paris, France"})
	if r.Index != 1 {
		t.Errorf("expected index 1, got %+v", r)
	}
}

func TestSmartSearchReturnsTermForCurrentSlot(t *testing.T) {
	b, _ := newTestBot(t, &countingGenerator{decision: replyDecision()})

	sel := b.SmartSearch(context.Background())
	if sel.Term == "" {
		t.Fatal("smart search must always return a term")
	}
	target := b.Schedule()
	if sel.Lang != target.LangCode {
		t.Errorf("expected term for slot language %q, got %q", target.LangCode, sel.Lang)
	}
}
