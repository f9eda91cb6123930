package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/domain"
	"github.com/dkeye/jamanager/internal/live"
)

// Register books an attendee to perform a song. A duplicate booking is
// rejected with domain.ErrAlreadyRegistered; changing instrument requires an
// explicit unregister first.
func (s *Service) Register(ctx context.Context, jamID domain.JamID, songID domain.SongID, attendeeID domain.AttendeeID, instrument string) (*domain.Registration, error) {
	if attendeeID == "" {
		return nil, domain.ErrInvalidIdentity
	}
	if instrument == "" {
		return nil, domain.ErrInstrumentEmpty
	}

	unlock := s.locks.lock(jamID, songID)
	defer unlock()

	reg, err := s.store.CreateRegistration(ctx, jamID, songID, attendeeID, instrument)
	if err != nil {
		return nil, err
	}

	log.Info().Str("module", "app").Str("jam", string(jamID)).Str("song", string(songID)).
		Str("attendee", string(attendeeID)).Str("instrument", instrument).Msg("performer registered")

	s.publishPerformers(ctx, live.EventPerformRegistered, jamID, songID)
	return reg, nil
}

// Unregister removes a booking. Removing one that does not exist is a
// successful no-op and emits no event.
func (s *Service) Unregister(ctx context.Context, jamID domain.JamID, songID domain.SongID, attendeeID domain.AttendeeID) error {
	if attendeeID == "" {
		return domain.ErrInvalidIdentity
	}

	unlock := s.locks.lock(jamID, songID)
	defer unlock()

	before, err := s.store.ListPerformers(ctx, jamID, songID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRegistration(ctx, jamID, songID, attendeeID); err != nil {
		return err
	}

	for _, p := range before {
		if p.AttendeeID == attendeeID {
			s.publishPerformers(ctx, live.EventPerformUnregistered, jamID, songID)
			break
		}
	}
	return nil
}

// Performers lists who is booked on a song, in registration order.
func (s *Service) Performers(ctx context.Context, jamID domain.JamID, songID domain.SongID) ([]*domain.Performer, error) {
	return s.store.ListPerformers(ctx, jamID, songID)
}

// Registrations lists a jam's bookings, optionally filtered by attendee.
func (s *Service) Registrations(ctx context.Context, jamID domain.JamID, attendeeID domain.AttendeeID) ([]*domain.Registration, error) {
	return s.store.ListRegistrations(ctx, jamID, attendeeID)
}

// publishPerformers broadcasts the refreshed lineup so clients can replace
// the whole list instead of patching it blind.
func (s *Service) publishPerformers(ctx context.Context, eventType string, jamID domain.JamID, songID domain.SongID) {
	performers, err := s.store.ListPerformers(ctx, jamID, songID)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Str("jam", string(jamID)).Msg("refresh performers for broadcast")
		return
	}
	s.pub.Publish(live.Event{
		Type:  eventType,
		JamID: jamID,
		Data:  live.PerformerChange{SongID: songID, Performers: performers},
	})
}
