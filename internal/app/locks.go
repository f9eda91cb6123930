package app

import (
	"sync"

	"github.com/dkeye/jamanager/internal/domain"
)

type songKey struct {
	jam  domain.JamID
	song domain.SongID
}

// songLocks serializes mutations per (jam, song). Different songs and
// different jams proceed in parallel; concurrent toggles on one song are
// funneled through the same mutex so the toggle set and the derived count
// can never race. Entries are tiny and jam-scoped, so they are not evicted.
type songLocks struct {
	mu    sync.Mutex
	locks map[songKey]*sync.Mutex
}

func newSongLocks() *songLocks {
	return &songLocks{locks: make(map[songKey]*sync.Mutex)}
}

// lock acquires the mutex for the key and returns its unlock.
func (l *songLocks) lock(jam domain.JamID, song domain.SongID) func() {
	key := songKey{jam: jam, song: song}
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
