// Package live fans state-change events out to every browser connection
// watching a jam. Delivery is at-least-once for currently open connections;
// disconnected clients catch up with a full refetch on reconnect.
package live

import "github.com/dkeye/jamanager/internal/domain"

const (
	EventVoteChanged         = "vote-changed"
	EventHeartToggled        = "heart-toggled"
	EventSongPlayed          = "song-played"
	EventPerformRegistered   = "performance-registered"
	EventPerformUnregistered = "performance-unregistered"
	EventChordSheetUpdated   = "chord-sheet-updated"
	EventAttendeeRegistered  = "attendee-registered"
	EventSongAdded           = "song-added"
	EventJamStatusChanged    = "jam-status-changed"
)

// Event is one typed state change scoped to a jam.
type Event struct {
	Type  string
	JamID domain.JamID
	Data  any
}

// HeartToggled carries the authoritative count after a toggle committed.
type HeartToggled struct {
	SongID    domain.SongID `json:"song_id"`
	VoteCount int           `json:"vote_count"`
	Action    string        `json:"action"`
}

// VoteChanged carries the authoritative count after a one-shot vote.
type VoteChanged struct {
	SongID    domain.SongID `json:"song_id"`
	VoteCount int           `json:"vote_count"`
}

// SongAdded announces a catalog song joining the jam's queue.
type SongAdded struct {
	SongID domain.SongID `json:"song_id"`
	Title  string        `json:"title"`
	Artist string        `json:"artist"`
}

// JamStatusChanged announces a manager-driven status transition.
type JamStatusChanged struct {
	Status domain.JamStatus `json:"status"`
}

// SongPlayed announces a song moving to the played state.
type SongPlayed struct {
	SongID domain.SongID `json:"song_id"`
}

// PerformerChange announces a registration or unregistration for a song.
type PerformerChange struct {
	SongID     domain.SongID       `json:"song_id"`
	Performers []*domain.Performer `json:"performers"`
}

// ChordSheetUpdated announces a new chord sheet URL for a queued song.
type ChordSheetUpdated struct {
	SongID domain.SongID `json:"song_id"`
	URL    string        `json:"chord_sheet_url"`
}

// AttendeeRegistered announces a new or rebound attendee.
type AttendeeRegistered struct {
	AttendeeID domain.AttendeeID `json:"attendee_id"`
	Name       string            `json:"name"`
}
