package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/jamanager/internal/domain"
)

type registerReq struct {
	AttendeeID string `json:"attendee_id" binding:"required"`
	Instrument string `json:"instrument" binding:"required"`
}

func (s *Server) RegisterToPerform(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attendee_id and instrument are required"})
		return
	}
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))

	reg, err := s.svc.Register(c.Request.Context(), jamID, songID, domain.AttendeeID(req.AttendeeID), req.Instrument)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// UnregisterFromPerform is idempotent: removing a booking that does not
// exist still returns 204.
func (s *Server) UnregisterFromPerform(c *gin.Context) {
	attendeeID := c.Query("attendee_id")
	if attendeeID == "" {
		var req identityReq
		_ = c.ShouldBindJSON(&req)
		attendeeID = req.AttendeeID
	}
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))

	if err := s.svc.Unregister(c.Request.Context(), jamID, songID, domain.AttendeeID(attendeeID)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListPerformers(c *gin.Context) {
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))

	performers, err := s.svc.Performers(c.Request.Context(), jamID, songID)
	if err != nil {
		respondError(c, err)
		return
	}
	if performers == nil {
		performers = []*domain.Performer{}
	}
	c.JSON(http.StatusOK, performers)
}

func (s *Server) ListRegistrations(c *gin.Context) {
	jamID := domain.JamID(c.Param("jamID"))
	attendeeID := domain.AttendeeID(c.Query("attendee_id"))

	regs, err := s.svc.Registrations(c.Request.Context(), jamID, attendeeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	c.JSON(http.StatusOK, regs)
}
