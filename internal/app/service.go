// Package app applies jam mutations: the heart/vote engine, the performance
// registration ledger, and the jam/song operations around them. Every
// successful mutation publishes a typed event before returning; delivery is
// fire-and-forget from the mutator's point of view.
package app

import (
	"github.com/dkeye/jamanager/internal/live"
	"github.com/dkeye/jamanager/internal/store"
)

// Publisher receives events emitted by committed mutations. *live.Hub
// satisfies it; tests substitute a recorder.
type Publisher interface {
	Publish(live.Event)
}

type Service struct {
	store *store.Store
	pub   Publisher
	locks *songLocks
}

func New(st *store.Store, pub Publisher) *Service {
	return &Service{
		store: st,
		pub:   pub,
		locks: newSongLocks(),
	}
}
