// Package http wires the REST surface and the live WebSocket endpoint.
package http

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/app"
	"github.com/dkeye/jamanager/internal/config"
	"github.com/dkeye/jamanager/internal/live"
)

// Server holds the handler dependencies. Everything is injected; there is no
// package-level state.
type Server struct {
	cfg     *config.Config
	svc     *app.Service
	hub     *live.Hub
	gate    Gate
	limiter *tokenRateLimiter
}

func NewServer(cfg *config.Config, svc *app.Service, hub *live.Hub) *Server {
	return &Server{
		cfg:     cfg,
		svc:     svc,
		hub:     hub,
		gate:    NewAccessCodeGate(cfg.AccessCode),
		limiter: newTokenRateLimiter(60, time.Minute),
	}
}

func SetupRouter(cfg *config.Config, svc *app.Service, hub *live.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("JamSessions", store))
	r.Use(ClientTokenMiddleware())

	srv := NewServer(cfg, svc, hub)

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.POST("/auth/verify", srv.VerifyAccessCode)

	api.POST("/songs", srv.CreateSong)
	api.GET("/songs", srv.ListSongs)

	api.POST("/jams", srv.CreateJam)
	api.GET("/jams", srv.ListJams)
	api.GET("/jams/by-slug/:slug", srv.GetJamBySlug)
	api.GET("/jams/:jamID", srv.GetJam)
	api.PUT("/jams/:jamID/status", srv.SetJamStatus)

	api.POST("/jams/:jamID/songs", srv.AddSong)
	api.POST("/jams/:jamID/songs/:songID/heart", srv.RateLimited, srv.ToggleHeart)
	api.POST("/jams/:jamID/songs/:songID/vote", srv.RateLimited, srv.Vote)
	api.GET("/jams/:jamID/songs/:songID/vote-status", srv.VoteStatus)
	api.POST("/jams/:jamID/songs/:songID/play", srv.RequireCapability(CanPlaySongs), srv.MarkPlayed)
	api.PUT("/jams/:jamID/songs/:songID/chord-sheet", srv.SetChordSheet)

	api.POST("/jams/:jamID/songs/:songID/register", srv.RequireCapability(CanRegisterToPerform), srv.RegisterToPerform)
	api.DELETE("/jams/:jamID/songs/:songID/register", srv.RequireCapability(CanRegisterToPerform), srv.UnregisterFromPerform)
	api.GET("/jams/:jamID/songs/:songID/performers", srv.ListPerformers)
	api.GET("/jams/:jamID/performers", srv.ListRegistrations)

	api.POST("/jams/:jamID/attendees", srv.RegisterAttendee)
	api.GET("/jams/:jamID/attendees", srv.ListAttendees)

	r.GET("/ws/:jamID", srv.HandleWS)

	return r
}
