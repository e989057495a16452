// Package server exposes the bot's operations over HTTP to the external
// browser-automation driver. The surface is CORS-open because the caller is
// a userscript running on another origin.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhishek9871/xbot/internal/bot"
	"github.com/abhishek9871/xbot/internal/logging"
)

// Server wraps the echo instance and its handlers
type Server struct {
	echo *echo.Echo
	bot  *bot.Bot
}

// New creates the HTTP server and registers routes
func New(b *bot.Bot) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, bot: b}

	e.GET("/", s.handleRoot)
	e.GET("/schedule", s.handleSchedule)
	e.GET("/smart-search", s.handleSmartSearch)
	e.POST("/analyze", s.handleAnalyze)
	e.POST("/log-reply", s.handleLogReply)
	e.POST("/update-trends", s.handleUpdateTrends)
	e.GET("/stats", s.handleStats)
	e.GET("/check-health", s.handleCheckHealth)
	e.POST("/select-location", s.handleSelectLocation)

	return s
}

// Start begins serving on the given port; blocks until shutdown
func (s *Server) Start(port string) error {
	logging.Info("HTTP server starting", "port", port)
	return s.echo.Start(":" + port)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "online",
		"service": "XBot Brain",
	})
}

func (s *Server) handleSchedule(c echo.Context) error {
	return c.JSON(http.StatusOK, s.bot.Schedule())
}

func (s *Server) handleSmartSearch(c echo.Context) error {
	return c.JSON(http.StatusOK, s.bot.SmartSearch(c.Request().Context()))
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req bot.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TweetID == "" || req.TweetText == "" || req.UserHandle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tweet_id, tweet_text and user_handle are required")
	}

	// Decision-path failures are folded into the response; this endpoint
	// never returns a 5xx for downstream problems.
	return c.JSON(http.StatusOK, s.bot.Analyze(c.Request().Context(), req))
}

func (s *Server) handleLogReply(c echo.Context) error {
	var req bot.LogReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TweetID == "" || req.UserHandle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tweet_id and user_handle are required")
	}

	if err := s.bot.LogReply(req); err != nil {
		logging.Error("Log reply failed", "tweet_id", req.TweetID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to log reply")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "logged"})
}

type trendUpdateRequest struct {
	Region string   `json:"region"`
	Trends []string `json:"trends"`
}

func (s *Server) handleUpdateTrends(c echo.Context) error {
	var req trendUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Region == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "region is required")
	}

	count, err := s.bot.UpdateTrends(req.Region, req.Trends)
	if err != nil {
		logging.Error("Trend update failed", "region", req.Region, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update trends")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":       "updated",
		"region":       req.Region,
		"trends_count": count,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.bot.Stats()
	if err != nil {
		logging.Error("Stats query failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleCheckHealth(c echo.Context) error {
	health, err := s.bot.CheckHealth()
	if err != nil {
		logging.Error("Health check failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read stats")
	}
	return c.JSON(http.StatusOK, health)
}

type locationSelectRequest struct {
	TargetLocation string   `json:"target_location"`
	Options        []string `json:"options"`
}

func (s *Server) handleSelectLocation(c echo.Context) error {
	var req locationSelectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TargetLocation == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "target_location is required")
	}

	return c.JSON(http.StatusOK, s.bot.SelectOption(req.TargetLocation, req.Options))
}
