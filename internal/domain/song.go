// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLen  = 255
	MaxArtistLen = 255
)

var (
	ErrTitleEmpty   = errors.New("song title empty")
	ErrTitleTooLong = errors.New("song title too long")
	ErrArtistEmpty  = errors.New("song artist empty")
)

type SongID string

// Song is a catalog entry shared across jams. Chord sheet URL is optional.
type Song struct {
	ID            SongID     `json:"id"`
	Title         string     `json:"title"`
	Artist        string     `json:"artist"`
	ChordSheetURL string     `json:"chord_sheet_url,omitempty"`
	TimesPlayed   int        `json:"times_played"`
	LastPlayed    *time.Time `json:"last_played,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewSong avoids raw literals in adapters and keeps construction obvious.
func NewSong(title, artist string) (*Song, error) {
	if title == "" {
		return nil, ErrTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return nil, ErrTitleTooLong
	}
	if artist == "" {
		return nil, ErrArtistEmpty
	}
	now := time.Now().UTC()
	return &Song{
		ID:        SongID(uuid.NewString()),
		Title:     title,
		Artist:    artist,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
