package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/jamanager/internal/domain"
)

// RegisterAttendee creates an attendee or, when the name is already taken in
// this jam, rebinds it to the given browser session.
func (s *Store) RegisterAttendee(ctx context.Context, jamID domain.JamID, name, sessionToken string) (*domain.Attendee, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register attendee: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := jamExists(ctx, tx, jamID); err != nil {
		return nil, err
	}

	var (
		existingID    string
		existingToken sql.NullString
		registeredAt  string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, session_token, registered_at FROM attendees WHERE jam_id = ? AND name = ?",
		string(jamID), name).Scan(&existingID, &existingToken, &registeredAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		attendee, err := domain.NewAttendee(jamID, name, sessionToken)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attendees (id, jam_id, name, session_token, registered_at)
             VALUES (?, ?, ?, ?, ?)`,
			string(attendee.ID), string(jamID), name, nullableString(sessionToken),
			formatTime(attendee.RegisteredAt))
		if err != nil {
			return nil, fmt.Errorf("insert attendee: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit register attendee: %w", err)
		}
		return attendee, nil
	case err != nil:
		return nil, fmt.Errorf("lookup attendee: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE attendees SET session_token = ? WHERE id = ?",
		nullableString(sessionToken), existingID); err != nil {
		return nil, fmt.Errorf("rebind attendee session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register attendee: %w", err)
	}

	at, err := parseTime(registeredAt)
	if err != nil {
		return nil, err
	}
	return &domain.Attendee{
		ID:           domain.AttendeeID(existingID),
		JamID:        jamID,
		Name:         name,
		SessionToken: sessionToken,
		RegisteredAt: at,
	}, nil
}

// GetAttendee returns one attendee or domain.ErrNotFound.
func (s *Store) GetAttendee(ctx context.Context, id domain.AttendeeID) (*domain.Attendee, error) {
	var (
		a            domain.Attendee
		aID          string
		jamID        string
		token        sql.NullString
		registeredAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, jam_id, name, session_token, registered_at FROM attendees WHERE id = ?",
		string(id)).Scan(&aID, &jamID, &a.Name, &token, &registeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attendee %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	a.ID = domain.AttendeeID(aID)
	a.JamID = domain.JamID(jamID)
	a.SessionToken = stringOrEmpty(token)
	if a.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttendees returns a jam's attendees in registration order.
func (s *Store) ListAttendees(ctx context.Context, jamID domain.JamID) ([]*domain.Attendee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, jam_id, name, session_token, registered_at
         FROM attendees WHERE jam_id = ? ORDER BY registered_at`,
		string(jamID))
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var out []*domain.Attendee
	for rows.Next() {
		var (
			a            domain.Attendee
			aID, jID     string
			token        sql.NullString
			registeredAt string
		)
		if err := rows.Scan(&aID, &jID, &a.Name, &token, &registeredAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		a.ID = domain.AttendeeID(aID)
		a.JamID = domain.JamID(jID)
		a.SessionToken = stringOrEmpty(token)
		if a.RegisteredAt, err = parseTime(registeredAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CreateRegistration books an attendee to perform a song. A second active
// registration for the same (attendee, song) is rejected with
// domain.ErrAlreadyRegistered rather than silently overwriting the
// instrument; the caller must unregister first.
func (s *Store) CreateRegistration(ctx context.Context, jamID domain.JamID, songID domain.SongID, attendeeID domain.AttendeeID, instrument string) (*domain.Registration, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := jamSongExists(ctx, tx, jamID, songID); err != nil {
		return nil, err
	}
	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM attendees WHERE id = ? AND jam_id = ?",
		string(attendeeID), string(jamID)).Scan(&n); err != nil {
		return nil, fmt.Errorf("check attendee: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("attendee %s: %w", attendeeID, domain.ErrNotFound)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM performance_registrations WHERE jam_id = ? AND song_id = ? AND attendee_id = ?",
		string(jamID), string(songID), string(attendeeID)).Scan(&n); err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("attendee %s on song %s: %w", attendeeID, songID, domain.ErrAlreadyRegistered)
	}

	reg := &domain.Registration{
		ID:           uuid.NewString(),
		JamID:        jamID,
		SongID:       songID,
		AttendeeID:   attendeeID,
		Instrument:   instrument,
		RegisteredAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO performance_registrations (id, jam_id, song_id, attendee_id, instrument, registered_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		reg.ID, string(jamID), string(songID), string(attendeeID), instrument,
		formatTime(reg.RegisteredAt))
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return reg, nil
}

// DeleteRegistration removes a booking. Deleting one that does not exist is
// a successful no-op.
func (s *Store) DeleteRegistration(ctx context.Context, jamID domain.JamID, songID domain.SongID, attendeeID domain.AttendeeID) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM performance_registrations WHERE jam_id = ? AND song_id = ? AND attendee_id = ?",
		string(jamID), string(songID), string(attendeeID))
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// ListPerformers returns who is booked on a song, in registration order.
func (s *Store) ListPerformers(ctx context.Context, jamID domain.JamID, songID domain.SongID) ([]*domain.Performer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.name, r.instrument, r.registered_at
         FROM performance_registrations r
         JOIN attendees a ON a.id = r.attendee_id
         WHERE r.jam_id = ? AND r.song_id = ?
         ORDER BY r.registered_at`,
		string(jamID), string(songID))
	if err != nil {
		return nil, fmt.Errorf("list performers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Performer
	for rows.Next() {
		var (
			p            domain.Performer
			id           string
			registeredAt string
		)
		if err := rows.Scan(&id, &p.Name, &p.Instrument, &registeredAt); err != nil {
			return nil, fmt.Errorf("scan performer: %w", err)
		}
		p.AttendeeID = domain.AttendeeID(id)
		if p.RegisteredAt, err = parseTime(registeredAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ListRegistrations returns a jam's registrations, optionally filtered by attendee.
func (s *Store) ListRegistrations(ctx context.Context, jamID domain.JamID, attendeeID domain.AttendeeID) ([]*domain.Registration, error) {
	query := `SELECT id, jam_id, song_id, attendee_id, instrument, registered_at
              FROM performance_registrations WHERE jam_id = ?`
	args := []any{string(jamID)}
	if attendeeID != "" {
		query += " AND attendee_id = ?"
		args = append(args, string(attendeeID))
	}
	query += " ORDER BY registered_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Registration
	for rows.Next() {
		var (
			r             domain.Registration
			jID, sID, aID string
			registeredAt  string
		)
		if err := rows.Scan(&r.ID, &jID, &sID, &aID, &r.Instrument, &registeredAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		r.JamID = domain.JamID(jID)
		r.SongID = domain.SongID(sID)
		r.AttendeeID = domain.AttendeeID(aID)
		if r.RegisteredAt, err = parseTime(registeredAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
