package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/jamanager/internal/domain"
)

type createSongReq struct {
	Title         string `json:"title" binding:"required"`
	Artist        string `json:"artist" binding:"required"`
	ChordSheetURL string `json:"chord_sheet_url"`
}

func (s *Server) CreateSong(c *gin.Context) {
	var req createSongReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and artist are required"})
		return
	}
	song, err := s.svc.CreateSong(c.Request.Context(), req.Title, req.Artist, req.ChordSheetURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, song)
}

func (s *Server) ListSongs(c *gin.Context) {
	songs, err := s.svc.ListSongs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

type addSongReq struct {
	SongID string `json:"song_id" binding:"required"`
}

func (s *Server) AddSong(c *gin.Context) {
	var req addSongReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "song_id is required"})
		return
	}
	entry, err := s.svc.AddSong(c.Request.Context(), domain.JamID(c.Param("jamID")), domain.SongID(req.SongID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) MarkPlayed(c *gin.Context) {
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))
	if err := s.svc.MarkPlayed(c.Request.Context(), jamID, songID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "song marked as played"})
}

type chordSheetReq struct {
	ChordSheetURL string `json:"chord_sheet_url" binding:"required"`
}

func (s *Server) SetChordSheet(c *gin.Context) {
	var req chordSheetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chord_sheet_url is required"})
		return
	}
	jamID := domain.JamID(c.Param("jamID"))
	songID := domain.SongID(c.Param("songID"))
	if err := s.svc.SetChordSheet(c.Request.Context(), jamID, songID, req.ChordSheetURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"song_id": songID, "chord_sheet_url": req.ChordSheetURL})
}
