package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/jamanager/internal/domain"
)

type identityReq struct {
	AttendeeID string `json:"attendee_id"`
	SessionID  string `json:"session_id"`
}

// ToggleHeart flips the caller's heart on a song and reports the new
// authoritative count plus what the toggle did.
func (s *Server) ToggleHeart(c *gin.Context) {
	var req identityReq
	_ = c.ShouldBindJSON(&req) // body is optional; the cookie token suffices

	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))
	id := identityFrom(c, req.AttendeeID, req.SessionID)

	out, err := s.svc.ToggleHeart(c.Request.Context(), jamID, songID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Vote records a one-shot vote; voting twice is a conflict.
func (s *Server) Vote(c *gin.Context) {
	var req identityReq
	_ = c.ShouldBindJSON(&req)

	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))
	id := identityFrom(c, req.AttendeeID, req.SessionID)

	count, err := s.svc.Vote(c.Request.Context(), jamID, songID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote_count": count})
}

// VoteStatus reports whether the caller currently holds a heart on the song.
func (s *Server) VoteStatus(c *gin.Context) {
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))
	id := identityFrom(c, c.Query("attendee_id"), c.Query("session_id"))

	hasVoted, err := s.svc.VoteStatus(c.Request.Context(), jamID, songID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_voted": hasVoted})
}
