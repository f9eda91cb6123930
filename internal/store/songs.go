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

// CreateSong inserts a catalog song.
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO songs (id, title, artist, chord_sheet_url, times_played, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(song.ID), song.Title, song.Artist, nullableString(song.ChordSheetURL),
		song.TimesPlayed, formatTime(song.CreatedAt), formatTime(song.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

// GetSong returns one catalog song or domain.ErrNotFound.
func (s *Store) GetSong(ctx context.Context, id domain.SongID) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, artist, chord_sheet_url, times_played, last_played, created_at, updated_at
         FROM songs WHERE id = ?`, string(id))
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %s: %w", id, domain.ErrNotFound)
	}
	return song, err
}

// ListSongs returns the whole catalog ordered by title.
func (s *Store) ListSongs(ctx context.Context) ([]*domain.Song, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, artist, chord_sheet_url, times_played, last_played, created_at, updated_at
         FROM songs ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var out []*domain.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, song)
	}
	return out, rows.Err()
}

// FindSongByTitleArtist matches case-insensitively; used to de-dup suggestions.
func (s *Store) FindSongByTitleArtist(ctx context.Context, title, artist string) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, artist, chord_sheet_url, times_played, last_played, created_at, updated_at
         FROM songs WHERE lower(title) = lower(?) AND lower(artist) = lower(?)`, title, artist)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %q by %q: %w", title, artist, domain.ErrNotFound)
	}
	return song, err
}

// AddSong queues a catalog song in a jam. The new entry takes the next
// insertion position, which later breaks vote-count ties.
func (s *Store) AddSong(ctx context.Context, jamID domain.JamID, songID domain.SongID) (*domain.JamSong, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin add song: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := jamExists(ctx, tx, jamID); err != nil {
		return nil, err
	}
	var title string
	if err := tx.QueryRowContext(ctx, "SELECT title FROM songs WHERE id = ?", string(songID)).Scan(&title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("song %s: %w", songID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("check song: %w", err)
	}

	var already int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM jam_songs WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&already)
	if err != nil {
		return nil, fmt.Errorf("check queued: %w", err)
	}
	if already > 0 {
		return nil, fmt.Errorf("song %s already queued in jam %s: %w", songID, jamID, domain.ErrConflict)
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM jam_songs WHERE jam_id = ?",
		string(jamID)).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	entry := &domain.JamSong{
		ID:        uuid.NewString(),
		JamID:     jamID,
		SongID:    songID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO jam_songs (id, jam_id, song_id, position, played, created_at)
         VALUES (?, ?, ?, ?, 0, ?)`,
		entry.ID, string(jamID), string(songID), position, formatTime(entry.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert jam song: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add song: %w", err)
	}
	return entry, nil
}

// MarkPlayed flags a queued song as played and bumps the catalog play stats.
// Marking an already-played song is a successful no-op.
func (s *Store) MarkPlayed(ctx context.Context, jamID domain.JamID, songID domain.SongID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark played: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var played bool
	err = tx.QueryRowContext(ctx,
		"SELECT played FROM jam_songs WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&played)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("song %s in jam %s: %w", songID, jamID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check played: %w", err)
	}
	if played {
		return nil
	}

	now := formatTime(time.Now().UTC())
	if _, err := tx.ExecContext(ctx,
		"UPDATE jam_songs SET played = 1, played_at = ? WHERE jam_id = ? AND song_id = ?",
		now, string(jamID), string(songID)); err != nil {
		return fmt.Errorf("mark jam song played: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE songs SET times_played = times_played + 1, last_played = ?, updated_at = ? WHERE id = ?",
		now, now, string(songID)); err != nil {
		return fmt.Errorf("bump song stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark played: %w", err)
	}
	return nil
}

// SetChordSheet updates the chord sheet URL of a song queued in a jam.
func (s *Store) SetChordSheet(ctx context.Context, jamID domain.JamID, songID domain.SongID, url string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM jam_songs WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check jam song: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("song %s in jam %s: %w", songID, jamID, domain.ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE songs SET chord_sheet_url = ?, updated_at = ? WHERE id = ?",
		url, formatTime(time.Now()), string(songID))
	if err != nil {
		return fmt.Errorf("update chord sheet: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(r rowScanner) (*domain.Song, error) {
	var (
		song       domain.Song
		id         string
		chordSheet sql.NullString
		lastPlayed sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := r.Scan(&id, &song.Title, &song.Artist, &chordSheet, &song.TimesPlayed,
		&lastPlayed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	song.ID = domain.SongID(id)
	song.ChordSheetURL = stringOrEmpty(chordSheet)

	var err error
	if song.LastPlayed, err = parseNullTime(lastPlayed); err != nil {
		return nil, err
	}
	if song.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if song.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &song, nil
}
