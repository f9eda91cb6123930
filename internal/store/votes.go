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

// ToggleResult reports what a toggle did and the authoritative count after it.
type ToggleResult struct {
	VoteCount int
	Added     bool
}

// ToggleVote flips the heart for (jam, song, identity) and recounts, all in
// one transaction: either both the toggle set and the derived count change
// together, or neither does.
func (s *Store) ToggleVote(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (ToggleResult, error) {
	var res ToggleResult
	if err := id.Validate(); err != nil {
		return res, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := jamSongExists(ctx, tx, jamID, songID); err != nil {
		return res, err
	}

	where, arg := identityClause(id)
	var voteID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM votes WHERE jam_id = ? AND song_id = ? AND "+where,
		string(jamID), string(songID), arg).Scan(&voteID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (id, jam_id, song_id, attendee_id, session_token, voted_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), string(jamID), string(songID),
			nullableString(string(id.AttendeeID)), nullableString(id.SessionToken),
			formatTime(time.Now()))
		if err != nil {
			return res, fmt.Errorf("insert vote: %w", err)
		}
		res.Added = true
	case err != nil:
		return res, fmt.Errorf("lookup vote: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, "DELETE FROM votes WHERE id = ?", voteID); err != nil {
			return res, fmt.Errorf("delete vote: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&res.VoteCount)
	if err != nil {
		return res, fmt.Errorf("count votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, fmt.Errorf("commit toggle: %w", err)
	}
	return res, nil
}

// AddVote records a one-shot vote. Unlike ToggleVote it rejects a second
// vote by the same identity with domain.ErrConflict.
func (s *Store) AddVote(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin vote: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := jamSongExists(ctx, tx, jamID, songID); err != nil {
		return 0, err
	}

	where, arg := identityClause(id)
	var n int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE jam_id = ? AND song_id = ? AND "+where,
		string(jamID), string(songID), arg).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("lookup vote: %w", err)
	}
	if n > 0 {
		return 0, fmt.Errorf("already voted for song %s: %w", songID, domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, jam_id, song_id, attendee_id, session_token, voted_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(jamID), string(songID),
		nullableString(string(id.AttendeeID)), nullableString(id.SessionToken),
		formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("insert vote: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit vote: %w", err)
	}
	return count, nil
}

// HasVoted reports whether the identity currently holds a heart on the song.
func (s *Store) HasVoted(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	where, arg := identityClause(id)
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE jam_id = ? AND song_id = ? AND "+where,
		string(jamID), string(songID), arg).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return n > 0, nil
}

// CountVotes returns the live cardinality of the song's heart set.
func (s *Store) CountVotes(ctx context.Context, jamID domain.JamID, songID domain.SongID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

// identityClause picks the dedup column: attendee id wins over session token.
func identityClause(id domain.Identity) (string, any) {
	if id.IsAttendee() {
		return "attendee_id = ?", string(id.AttendeeID)
	}
	return "session_token = ?", id.SessionToken
}

func jamSongExists(ctx context.Context, q querier, jamID domain.JamID, songID domain.SongID) error {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM jam_songs WHERE jam_id = ? AND song_id = ?",
		string(jamID), string(songID)).Scan(&n)
	if err != nil {
		return fmt.Errorf("check jam song: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("song %s in jam %s: %w", songID, jamID, domain.ErrNotFound)
	}
	return nil
}
