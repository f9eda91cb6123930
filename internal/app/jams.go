package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/domain"
	"github.com/dkeye/jamanager/internal/live"
)

// CreateJam creates a jam in the waiting state.
func (s *Service) CreateJam(ctx context.Context, name, description string) (*domain.Jam, error) {
	jam, err := domain.NewJam(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateJam(ctx, jam); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app").Str("jam", string(jam.ID)).Str("slug", jam.Slug).Msg("jam created")
	return jam, nil
}

func (s *Service) ListJams(ctx context.Context) ([]*domain.Jam, error) {
	return s.store.ListJams(ctx)
}

func (s *Service) GetJam(ctx context.Context, id domain.JamID) (*domain.Jam, error) {
	return s.store.GetJam(ctx, id)
}

func (s *Service) GetJamBySlug(ctx context.Context, slug string) (*domain.Jam, error) {
	return s.store.GetJamBySlug(ctx, slug)
}

// SetJamStatus applies a manager-driven transition and notifies viewers.
func (s *Service) SetJamStatus(ctx context.Context, id domain.JamID, status domain.JamStatus) error {
	if err := s.store.UpdateJamStatus(ctx, id, status); err != nil {
		return err
	}
	s.pub.Publish(live.Event{
		Type:  live.EventJamStatusChanged,
		JamID: id,
		Data:  live.JamStatusChanged{Status: status},
	})
	return nil
}

// AddSong queues a catalog song in a jam and announces it.
func (s *Service) AddSong(ctx context.Context, jamID domain.JamID, songID domain.SongID) (*domain.JamSong, error) {
	entry, err := s.store.AddSong(ctx, jamID, songID)
	if err != nil {
		return nil, err
	}
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return nil, err
	}
	entry.Song = song

	s.pub.Publish(live.Event{
		Type:  live.EventSongAdded,
		JamID: jamID,
		Data:  live.SongAdded{SongID: songID, Title: song.Title, Artist: song.Artist},
	})
	return entry, nil
}

// MarkPlayed is idempotent: only the first transition emits an event.
func (s *Service) MarkPlayed(ctx context.Context, jamID domain.JamID, songID domain.SongID) error {
	unlock := s.locks.lock(jamID, songID)
	defer unlock()

	jam, err := s.store.GetJam(ctx, jamID)
	if err != nil {
		return err
	}
	alreadyPlayed := false
	for _, js := range jam.Songs {
		if js.SongID == songID {
			alreadyPlayed = js.Played
		}
	}

	if err := s.store.MarkPlayed(ctx, jamID, songID); err != nil {
		return err
	}
	if alreadyPlayed {
		return nil
	}

	s.pub.Publish(live.Event{
		Type:  live.EventSongPlayed,
		JamID: jamID,
		Data:  live.SongPlayed{SongID: songID},
	})
	return nil
}

// SetChordSheet attaches a chord sheet URL to a queued song.
func (s *Service) SetChordSheet(ctx context.Context, jamID domain.JamID, songID domain.SongID, url string) error {
	if err := s.store.SetChordSheet(ctx, jamID, songID, url); err != nil {
		return err
	}
	s.pub.Publish(live.Event{
		Type:  live.EventChordSheetUpdated,
		JamID: jamID,
		Data:  live.ChordSheetUpdated{SongID: songID, URL: url},
	})
	return nil
}

// RegisterAttendee upserts a named attendee for a jam and announces them.
func (s *Service) RegisterAttendee(ctx context.Context, jamID domain.JamID, name, sessionToken string) (*domain.Attendee, error) {
	attendee, err := s.store.RegisterAttendee(ctx, jamID, name, sessionToken)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(live.Event{
		Type:  live.EventAttendeeRegistered,
		JamID: jamID,
		Data:  live.AttendeeRegistered{AttendeeID: attendee.ID, Name: attendee.Name},
	})
	return attendee, nil
}

func (s *Service) ListAttendees(ctx context.Context, jamID domain.JamID) ([]*domain.Attendee, error) {
	return s.store.ListAttendees(ctx, jamID)
}

// Catalog pass-throughs.

func (s *Service) CreateSong(ctx context.Context, title, artist, chordSheetURL string) (*domain.Song, error) {
	song, err := domain.NewSong(title, artist)
	if err != nil {
		return nil, err
	}
	song.ChordSheetURL = chordSheetURL
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *Service) ListSongs(ctx context.Context) ([]*domain.Song, error) {
	return s.store.ListSongs(ctx)
}

func (s *Service) GetSong(ctx context.Context, id domain.SongID) (*domain.Song, error) {
	return s.store.GetSong(ctx, id)
}
