package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MaxAttendeeNameLen = 255
	MaxInstrumentLen   = 100
)

var (
	ErrAttendeeNameEmpty = errors.New("attendee name empty")
	ErrInstrumentEmpty   = errors.New("instrument empty")
)

type AttendeeID string

// Attendee is a registered participant of one jam. Names are unique per jam;
// re-registering the same name rebinds it to the current browser session.
type Attendee struct {
	ID           AttendeeID `json:"id"`
	JamID        JamID      `json:"jam_id"`
	Name         string     `json:"name"`
	SessionToken string     `json:"-"`
	RegisteredAt time.Time  `json:"registered_at"`
}

func NewAttendee(jamID JamID, name, sessionToken string) (*Attendee, error) {
	if name == "" {
		return nil, ErrAttendeeNameEmpty
	}
	if len(name) > MaxAttendeeNameLen {
		return nil, errors.New("attendee name too long")
	}
	return &Attendee{
		ID:           AttendeeID(uuid.NewString()),
		JamID:        jamID,
		Name:         name,
		SessionToken: sessionToken,
		RegisteredAt: time.Now().UTC(),
	}, nil
}

// Registration is an attendee's claim to perform one song in one jam.
// At most one active registration per (attendee, song).
type Registration struct {
	ID           string     `json:"id"`
	JamID        JamID      `json:"jam_id"`
	SongID       SongID     `json:"song_id"`
	AttendeeID   AttendeeID `json:"attendee_id"`
	Instrument   string     `json:"instrument"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// Performer is the read-model returned to the UI for a song's lineup.
type Performer struct {
	AttendeeID   AttendeeID `json:"attendee_id"`
	Name         string     `json:"name"`
	Instrument   string     `json:"instrument"`
	RegisteredAt time.Time  `json:"registered_at"`
}
