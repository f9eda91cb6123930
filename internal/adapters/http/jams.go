package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/jamanager/internal/domain"
)

type createJamReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) CreateJam(c *gin.Context) {
	var req createJamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jam name is required"})
		return
	}
	jam, err := s.svc.CreateJam(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jam)
}

func (s *Server) ListJams(c *gin.Context) {
	jams, err := s.svc.ListJams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jams)
}

func (s *Server) GetJam(c *gin.Context) {
	jam, err := s.svc.GetJam(c.Request.Context(), domain.JamID(c.Param("jamID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jam)
}

func (s *Server) GetJamBySlug(c *gin.Context) {
	jam, err := s.svc.GetJamBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jam)
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) SetJamStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.svc.SetJamStatus(c.Request.Context(), domain.JamID(c.Param("jamID")), status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type attendeeReq struct {
	Name      string `json:"name" binding:"required"`
	SessionID string `json:"session_id"`
}

func (s *Server) RegisterAttendee(c *gin.Context) {
	var req attendeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	token := req.SessionID
	if token == "" {
		token = c.GetString(clientTokenKey)
	}
	attendee, err := s.svc.RegisterAttendee(c.Request.Context(), domain.JamID(c.Param("jamID")), req.Name, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attendee)
}

func (s *Server) ListAttendees(c *gin.Context) {
	attendees, err := s.svc.ListAttendees(c.Request.Context(), domain.JamID(c.Param("jamID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}
