package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type (
	JamID     string
	JamStatus string
)

const (
	StatusWaiting JamStatus = "waiting"
	StatusActive  JamStatus = "active"
	StatusEnded   JamStatus = "ended"
)

const MaxJamNameLen = 255

var (
	ErrJamNameEmpty   = errors.New("jam name empty")
	ErrJamNameTooLong = errors.New("jam name too long")
	ErrBadStatus      = errors.New("unknown jam status")
)

// Jam is one live music event with a queue of songs.
type Jam struct {
	ID          JamID     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Status      JamStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Songs is populated on full reads, ordered by vote count descending
	// with insertion order breaking ties.
	Songs []*JamSong `json:"songs,omitempty"`
}

// JamSong is a catalog song queued in one jam, plus the jam-scoped state.
// VoteCount is derived from the vote rows; it is never stored or mutated
// on its own.
type JamSong struct {
	ID        string     `json:"id"`
	JamID     JamID      `json:"jam_id"`
	SongID    SongID     `json:"song_id"`
	Song      *Song      `json:"song,omitempty"`
	VoteCount int        `json:"vote_count"`
	Played    bool       `json:"played"`
	PlayedAt  *time.Time `json:"played_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewJam(name, description string) (*Jam, error) {
	if name == "" {
		return nil, ErrJamNameEmpty
	}
	if len(name) > MaxJamNameLen {
		return nil, ErrJamNameTooLong
	}
	now := time.Now().UTC()
	return &Jam{
		ID:          JamID(uuid.NewString()),
		Name:        name,
		Slug:        Slugify(name, now),
		Description: description,
		Status:      StatusWaiting,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ParseStatus validates a manager-supplied status transition target.
func ParseStatus(s string) (JamStatus, error) {
	switch JamStatus(s) {
	case StatusWaiting, StatusActive, StatusEnded:
		return JamStatus(s), nil
	}
	return "", ErrBadStatus
}
