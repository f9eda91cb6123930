package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/domain"
	"github.com/dkeye/jamanager/internal/live"
)

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// ToggleOutcome is what a heart toggle reports back to the caller.
type ToggleOutcome struct {
	VoteCount int    `json:"vote_count"`
	Action    string `json:"action"`
}

// ToggleHeart flips the identity's heart on a song. The per-(jam, song) lock
// is held across commit and publish, so concurrent toggles by different
// identities serialize and their broadcast events leave in commit order.
func (s *Service) ToggleHeart(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (ToggleOutcome, error) {
	if err := id.Validate(); err != nil {
		return ToggleOutcome{}, err
	}

	unlock := s.locks.lock(jamID, songID)
	defer unlock()

	res, err := s.store.ToggleVote(ctx, jamID, songID, id)
	if err != nil {
		return ToggleOutcome{}, err
	}

	out := ToggleOutcome{VoteCount: res.VoteCount, Action: ActionRemoved}
	if res.Added {
		out.Action = ActionAdded
	}

	log.Info().Str("module", "app").Str("jam", string(jamID)).Str("song", string(songID)).
		Str("action", out.Action).Int("vote_count", out.VoteCount).Msg("heart toggled")

	s.pub.Publish(live.Event{
		Type:  live.EventHeartToggled,
		JamID: jamID,
		Data: live.HeartToggled{
			SongID:    songID,
			VoteCount: out.VoteCount,
			Action:    out.Action,
		},
	})
	return out, nil
}

// Vote records a one-shot vote: a second vote by the same identity is a
// Conflict, not a toggle.
func (s *Service) Vote(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	unlock := s.locks.lock(jamID, songID)
	defer unlock()

	count, err := s.store.AddVote(ctx, jamID, songID, id)
	if err != nil {
		return 0, err
	}

	s.pub.Publish(live.Event{
		Type:  live.EventVoteChanged,
		JamID: jamID,
		Data:  live.VoteChanged{SongID: songID, VoteCount: count},
	})
	return count, nil
}

// VoteStatus is a pure read: no lock, no event.
func (s *Service) VoteStatus(ctx context.Context, jamID domain.JamID, songID domain.SongID, id domain.Identity) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	return s.store.HasVoted(ctx, jamID, songID, id)
}
