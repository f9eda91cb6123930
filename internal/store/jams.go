package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/jamanager/internal/domain"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func jamExists(ctx context.Context, q querier, jamID domain.JamID) error {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(1) FROM jams WHERE id = ?", string(jamID)).Scan(&n); err != nil {
		return fmt.Errorf("check jam: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("jam %s: %w", jamID, domain.ErrNotFound)
	}
	return nil
}

// CreateJam inserts a jam, uniquifying its slug against existing ones.
func (s *Store) CreateJam(ctx context.Context, jam *domain.Jam) error {
	rows, err := s.db.QueryContext(ctx, "SELECT slug FROM jams")
	if err != nil {
		return fmt.Errorf("list slugs: %w", err)
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list slugs: %w", err)
	}
	jam.Slug = domain.MakeSlugUnique(jam.Slug, slugs)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jams (id, name, slug, description, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(jam.ID), jam.Name, jam.Slug, jam.Description, string(jam.Status),
		formatTime(jam.CreatedAt), formatTime(jam.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert jam: %w", err)
	}
	return nil
}

// ListJams returns all jams without their song lists, newest first.
func (s *Store) ListJams(ctx context.Context) ([]*domain.Jam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, description, status, created_at, updated_at
         FROM jams ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jams: %w", err)
	}
	defer rows.Close()

	var out []*domain.Jam
	for rows.Next() {
		jam, err := scanJam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jam)
	}
	return out, rows.Err()
}

// GetJam returns a jam with its full song list. Songs are ordered by vote
// count descending; equal counts keep their insertion order. The count is
// computed from the vote rows in the same query, so it can never drift from
// the heart set.
func (s *Store) GetJam(ctx context.Context, id domain.JamID) (*domain.Jam, error) {
	return s.getJam(ctx, "id = ?", string(id))
}

// GetJamBySlug is GetJam addressed by the URL slug.
func (s *Store) GetJamBySlug(ctx context.Context, slug string) (*domain.Jam, error) {
	return s.getJam(ctx, "slug = ?", slug)
}

func (s *Store) getJam(ctx context.Context, where string, arg any) (*domain.Jam, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, status, created_at, updated_at FROM jams WHERE "+where, arg)
	jam, err := scanJam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("jam %v: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT js.id, js.song_id, js.position, js.played, js.played_at, js.created_at,
                s.id, s.title, s.artist, s.chord_sheet_url, s.times_played, s.last_played, s.created_at, s.updated_at,
                (SELECT COUNT(1) FROM votes v WHERE v.jam_id = js.jam_id AND v.song_id = js.song_id) AS vote_count
         FROM jam_songs js
         JOIN songs s ON s.id = js.song_id
         WHERE js.jam_id = ?
         ORDER BY vote_count DESC, js.position ASC`,
		string(jam.ID))
	if err != nil {
		return nil, fmt.Errorf("list jam songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry     domain.JamSong
			song      domain.Song
			songID    string
			position  int
			playedAt  sql.NullString
			createdAt string

			sID         string
			sChordSheet sql.NullString
			sLastPlayed sql.NullString
			sCreatedAt  string
			sUpdatedAt  string
		)
		err := rows.Scan(&entry.ID, &songID, &position, &entry.Played, &playedAt, &createdAt,
			&sID, &song.Title, &song.Artist, &sChordSheet, &song.TimesPlayed, &sLastPlayed,
			&sCreatedAt, &sUpdatedAt, &entry.VoteCount)
		if err != nil {
			return nil, fmt.Errorf("scan jam song: %w", err)
		}
		entry.JamID = jam.ID
		entry.SongID = domain.SongID(songID)
		song.ID = domain.SongID(sID)
		song.ChordSheetURL = stringOrEmpty(sChordSheet)
		if entry.PlayedAt, err = parseNullTime(playedAt); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if song.LastPlayed, err = parseNullTime(sLastPlayed); err != nil {
			return nil, err
		}
		if song.CreatedAt, err = parseTime(sCreatedAt); err != nil {
			return nil, err
		}
		if song.UpdatedAt, err = parseTime(sUpdatedAt); err != nil {
			return nil, err
		}
		entry.Song = &song
		jam.Songs = append(jam.Songs, &entry)
	}
	return jam, rows.Err()
}

// UpdateJamStatus applies a manager-driven status transition.
func (s *Store) UpdateJamStatus(ctx context.Context, id domain.JamID, status domain.JamStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE jams SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(time.Now()), string(id))
	if err != nil {
		return fmt.Errorf("update jam status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update jam status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("jam %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanJam(r rowScanner) (*domain.Jam, error) {
	var (
		jam       domain.Jam
		id        string
		status    string
		createdAt string
		updatedAt string
	)
	if err := r.Scan(&id, &jam.Name, &jam.Slug, &jam.Description, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	jam.ID = domain.JamID(id)
	jam.Status = domain.JamStatus(status)

	var err error
	if jam.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if jam.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &jam, nil
}
