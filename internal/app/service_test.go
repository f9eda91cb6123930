package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/jamanager/internal/domain"
	"github.com/dkeye/jamanager/internal/live"
	"github.com/dkeye/jamanager/internal/store"
)

// recorder collects published events in order.
type recorder struct {
	mu     sync.Mutex
	events []live.Event
}

func (r *recorder) Publish(ev live.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []live.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]live.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) ofType(eventType string) []live.Event {
	var out []live.Event
	for _, ev := range r.all() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	svc  *Service
	rec  *recorder
	jam  *domain.Jam
	song *domain.Song
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	rec := &recorder{}
	svc := New(st, rec)

	jam, err := svc.CreateJam(ctx, "Friday Jam", "open mic night")
	require.NoError(t, err)
	song, err := svc.CreateSong(ctx, "Wonderwall", "Oasis", "")
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, jam.ID, song.ID)
	require.NoError(t, err)

	return &fixture{svc: svc, rec: rec, jam: jam, song: song}
}

func TestToggleHeart_EmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.ToggleHeart(ctx, f.jam.ID, f.song.ID, domain.Anonymous("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, out.Action)
	assert.Equal(t, 1, out.VoteCount)

	events := f.rec.ofType(live.EventHeartToggled)
	require.Len(t, events, 1)
	data, ok := events[0].Data.(live.HeartToggled)
	require.True(t, ok)
	assert.Equal(t, f.song.ID, data.SongID)
	assert.Equal(t, 1, data.VoteCount)
	assert.Equal(t, ActionAdded, data.Action)

	out, err = f.svc.ToggleHeart(ctx, f.jam.ID, f.song.ID, domain.Anonymous("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, out.Action)
	assert.Equal(t, 0, out.VoteCount)

	events = f.rec.ofType(live.EventHeartToggled)
	require.Len(t, events, 2)
}

func TestToggleHeart_RejectsEmptyIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ToggleHeart(context.Background(), f.jam.ID, f.song.ID, domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
	assert.Empty(t, f.rec.ofType(live.EventHeartToggled))
}

// Concurrent toggles by many identities must land on the exact count implied
// by the toggle parity of each identity, and every broadcast count must match
// the committed state at the moment it was published.
func TestToggleHeart_ConcurrentParity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const identities = 8
	wantCount := 0
	var wg sync.WaitGroup
	for i := 0; i < identities; i++ {
		// Identity i toggles i+1 times; odd totals end with a heart held.
		toggles := i + 1
		if toggles%2 == 1 {
			wantCount++
		}
		wg.Add(1)
		go func(tok string, n int) {
			defer wg.Done()
			for j := 0; j < n; j++ {
				_, err := f.svc.ToggleHeart(ctx, f.jam.ID, f.song.ID, domain.Anonymous(tok))
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("tok-%d", i), toggles)
	}
	wg.Wait()

	got, err := f.svc.GetJam(ctx, f.jam.ID)
	require.NoError(t, err)
	require.Len(t, got.Songs, 1)
	assert.Equal(t, wantCount, got.Songs[0].VoteCount)

	// Events left in commit order: the last one carries the final count.
	events := f.rec.ofType(live.EventHeartToggled)
	totalToggles := identities * (identities + 1) / 2
	require.Len(t, events, totalToggles)
	last := events[len(events)-1].Data.(live.HeartToggled)
	assert.Equal(t, wantCount, last.VoteCount)
}

func TestVote_SecondVoteConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count, err := f.svc.Vote(ctx, f.jam.ID, f.song.ID, domain.Anonymous("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.svc.Vote(ctx, f.jam.ID, f.song.ID, domain.Anonymous("tok-1"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The failed vote must not have emitted anything.
	assert.Len(t, f.rec.ofType(live.EventVoteChanged), 1)
}

func TestVoteStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := domain.Anonymous("tok-1")

	voted, err := f.svc.VoteStatus(ctx, f.jam.ID, f.song.ID, id)
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = f.svc.ToggleHeart(ctx, f.jam.ID, f.song.ID, id)
	require.NoError(t, err)

	voted, err = f.svc.VoteStatus(ctx, f.jam.ID, f.song.ID, id)
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestRegister_PublishesLineup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dana, err := f.svc.RegisterAttendee(ctx, f.jam.ID, "Dana", "tok-1")
	require.NoError(t, err)

	reg, err := f.svc.Register(ctx, f.jam.ID, f.song.ID, dana.ID, "guitar")
	require.NoError(t, err)
	assert.Equal(t, "guitar", reg.Instrument)

	events := f.rec.ofType(live.EventPerformRegistered)
	require.Len(t, events, 1)
	data := events[0].Data.(live.PerformerChange)
	assert.Equal(t, f.song.ID, data.SongID)
	require.Len(t, data.Performers, 1)
	assert.Equal(t, "Dana", data.Performers[0].Name)

	_, err = f.svc.Register(ctx, f.jam.ID, f.song.ID, dana.ID, "vocals")
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	assert.Len(t, f.rec.ofType(live.EventPerformRegistered), 1)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.jam.ID, f.song.ID, "", "guitar")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)

	dana, err := f.svc.RegisterAttendee(ctx, f.jam.ID, "Dana", "tok-1")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, f.jam.ID, f.song.ID, dana.ID, "")
	assert.ErrorIs(t, err, domain.ErrInstrumentEmpty)
}

func TestUnregister_NoOpEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dana, err := f.svc.RegisterAttendee(ctx, f.jam.ID, "Dana", "tok-1")
	require.NoError(t, err)

	// No booking yet: the unregister succeeds silently.
	require.NoError(t, f.svc.Unregister(ctx, f.jam.ID, f.song.ID, dana.ID))
	assert.Empty(t, f.rec.ofType(live.EventPerformUnregistered))

	_, err = f.svc.Register(ctx, f.jam.ID, f.song.ID, dana.ID, "guitar")
	require.NoError(t, err)
	require.NoError(t, f.svc.Unregister(ctx, f.jam.ID, f.song.ID, dana.ID))

	events := f.rec.ofType(live.EventPerformUnregistered)
	require.Len(t, events, 1)
	data := events[0].Data.(live.PerformerChange)
	assert.Empty(t, data.Performers)
}

func TestMarkPlayed_SecondCallEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.MarkPlayed(ctx, f.jam.ID, f.song.ID))
	require.NoError(t, f.svc.MarkPlayed(ctx, f.jam.ID, f.song.ID))

	events := f.rec.ofType(live.EventSongPlayed)
	require.Len(t, events, 1)
	assert.Equal(t, f.song.ID, events[0].Data.(live.SongPlayed).SongID)
}

func TestSetJamStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetJamStatus(ctx, f.jam.ID, domain.StatusActive))

	events := f.rec.ofType(live.EventJamStatusChanged)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StatusActive, events[0].Data.(live.JamStatusChanged).Status)

	err := f.svc.SetJamStatus(ctx, "missing", domain.StatusEnded)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.rec.ofType(live.EventJamStatusChanged), 1)
}

func TestAddSong_EmitsAnnouncement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creep, err := f.svc.CreateSong(ctx, "Creep", "Radiohead", "")
	require.NoError(t, err)
	entry, err := f.svc.AddSong(ctx, f.jam.ID, creep.ID)
	require.NoError(t, err)
	require.NotNil(t, entry.Song)
	assert.Equal(t, "Creep", entry.Song.Title)

	events := f.rec.ofType(live.EventSongAdded)
	require.Len(t, events, 2) // fixture queued Wonderwall first
	data := events[1].Data.(live.SongAdded)
	assert.Equal(t, creep.ID, data.SongID)
	assert.Equal(t, "Creep", data.Title)
}

func TestSetChordSheet_EmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url := "https://chords.example/wonderwall"
	require.NoError(t, f.svc.SetChordSheet(ctx, f.jam.ID, f.song.ID, url))

	events := f.rec.ofType(live.EventChordSheetUpdated)
	require.Len(t, events, 1)
	data := events[0].Data.(live.ChordSheetUpdated)
	assert.Equal(t, url, data.URL)
}
