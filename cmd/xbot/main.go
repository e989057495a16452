// Command xbot runs the decision backend for the X.com automation bot: it
// guards against duplicate replies, rotates target regions by UTC hour,
// maintains the search-term pool and drafts localized replies.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhishek9871/xbot/internal/bot"
	"github.com/abhishek9871/xbot/internal/config"
	"github.com/abhishek9871/xbot/internal/content"
	"github.com/abhishek9871/xbot/internal/generator"
	"github.com/abhishek9871/xbot/internal/guard"
	"github.com/abhishek9871/xbot/internal/logging"
	"github.com/abhishek9871/xbot/internal/scheduler"
	"github.com/abhishek9871/xbot/internal/server"
	"github.com/abhishek9871/xbot/internal/store"
	"github.com/abhishek9871/xbot/internal/terms"
)

func main() {
	configPath := flag.String("config", "xbot.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Init(false)
		logging.Fatal("Failed to load config", "path", *configPath, "error", err)
	}

	logging.Init(cfg.Debug)

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		logging.Fatal("Failed to open store", "path", cfg.Database.Path, "error", err)
	}
	defer st.Close()
	logging.Info("Store initialized", "path", cfg.Database.Path)

	gen := newGenerator(cfg)
	logging.Info("Draft generator ready", "provider", gen.Name())

	contentClient := content.New(
		cfg.Content.APIKey,
		cfg.Content.BaseURL,
		st,
		cfg.ContentCacheTTL(),
		cfg.ContentTimeout(),
		cfg.Content.RequestsPerSec,
	)
	if !contentClient.Available() {
		logging.Warn("TMDB_API_KEY not set; term generation will use generic templates only")
	}

	termManager := terms.New(
		st,
		contentClient,
		cfg.Terms.EvergreenProbability,
		cfg.Terms.MaxTermsPerTitle,
		cfg.Terms.MaxTitles,
		nil,
	)

	g := guard.New(st, cfg.Limits.MaxRepliesPerUser, cfg.CooldownWindow())

	b := bot.New(st, g, gen, termManager, cfg.GeneratorTimeout(), cfg.Limits.DailyWarnThreshold)

	sched := scheduler.New()
	if err := sched.AddHourlyJob("term-pool-warmup", b.WarmTermPool); err != nil {
		logging.Fatal("Failed to schedule warmup job", "error", err)
	}
	sched.Start()

	srv := server.New(b)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logging.Info("Shutting down", "signal", sig)

		<-sched.Stop().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(cfg.Server.Port); err != nil {
		logging.Info("Server stopped", "reason", err)
	}
}

// newGenerator picks the provider from config. A missing credential degrades
// to the stub so the pipeline stays exercisable.
func newGenerator(cfg *config.Config) generator.Generator {
	if cfg.Generator.APIKey == "" {
		logging.Warn("No generator API key set; using stub provider")
		return generator.NewStubProvider(cfg.SiteURL)
	}

	switch cfg.Generator.Provider {
	case config.ProviderAnthropic:
		return generator.NewAnthropicProvider(cfg.Generator.APIKey, cfg.Generator.Model, cfg.SiteURL)
	case config.ProviderStub:
		return generator.NewStubProvider(cfg.SiteURL)
	default:
		return generator.NewGroqProvider(
			cfg.Generator.APIKey,
			cfg.Generator.Model,
			cfg.SiteURL,
			cfg.Generator.Temperature,
			cfg.Generator.MaxTokens,
			cfg.GeneratorTimeout(),
		)
	}
}
