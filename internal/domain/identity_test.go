package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityValidate(t *testing.T) {
	assert.ErrorIs(t, Identity{}.Validate(), ErrInvalidIdentity)
	assert.NoError(t, Anonymous("tok-1").Validate())
	assert.NoError(t, Identity{AttendeeID: "a-1"}.Validate())
}

func TestIdentityIsAttendee(t *testing.T) {
	assert.False(t, Anonymous("tok-1").IsAttendee())
	assert.True(t, Identity{AttendeeID: "a-1"}.IsAttendee())
	// Attendee id wins when both halves are set.
	assert.True(t, Identity{AttendeeID: "a-1", SessionToken: "tok-1"}.IsAttendee())
}

func TestNewSong(t *testing.T) {
	song, err := NewSong("Wonderwall", "Oasis")
	require.NoError(t, err)
	assert.NotEmpty(t, song.ID)
	assert.Equal(t, "Wonderwall", song.Title)
	assert.Equal(t, "Oasis", song.Artist)
	assert.Zero(t, song.TimesPlayed)

	_, err = NewSong("", "Oasis")
	assert.ErrorIs(t, err, ErrTitleEmpty)

	_, err = NewSong("Wonderwall", "")
	assert.ErrorIs(t, err, ErrArtistEmpty)
}
