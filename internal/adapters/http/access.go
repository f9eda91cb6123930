package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Capabilities checked before protected mutations. Voting and performer
// registration are open to everyone in the room; curating the set list is
// manager-only.
const (
	CanVote              = "can_vote"
	CanRegisterToPerform = "can_register_to_perform"
	CanPlaySongs         = "can_play_songs"
)

const managerSessionKey = "manager"

// Gate answers capability checks. The default implementation derives the
// manager role from a shared access code; swap it out to plug in a real
// access-control service.
type Gate interface {
	Can(c *gin.Context, capability string) bool
}

// AccessCodeGate grants manager capabilities to sessions that presented the
// shared access code. An empty configured code leaves everything open,
// which keeps local development friction-free.
type AccessCodeGate struct {
	code string
}

func NewAccessCodeGate(code string) *AccessCodeGate {
	return &AccessCodeGate{code: code}
}

func (g *AccessCodeGate) Can(c *gin.Context, capability string) bool {
	switch capability {
	case CanVote, CanRegisterToPerform:
		return true
	case CanPlaySongs:
		if g.code == "" {
			return true
		}
		session := sessions.Default(c)
		granted, _ := session.Get(managerSessionKey).(bool)
		return granted
	}
	return false
}

// RequireCapability rejects the request with 403 when the gate says no.
func (s *Server) RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.gate.Can(c, capability) {
			log.Warn().Str("module", "adapters.http").Str("capability", capability).
				Str("path", c.FullPath()).Msg("capability denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

type verifyReq struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// VerifyAccessCode upgrades the cookie session to manager when the shared
// code matches.
func (s *Server) VerifyAccessCode(c *gin.Context) {
	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_code is required"})
		return
	}
	if s.cfg.AccessCode == "" || req.AccessCode != s.cfg.AccessCode {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid access code"})
		return
	}
	session := sessions.Default(c)
	session.Set(managerSessionKey, true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}
