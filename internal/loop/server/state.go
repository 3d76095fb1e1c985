package server

import (
	"slices"
	"time"

	"github.com/tomz197/balldrop/internal/game"
)

// Entry is one finished game on the leaderboard.
type Entry struct {
	Username string
	Preset   string
	Score    int
	MaxScore int
	At       time.Time
}

// Snapshot is an immutable view of the hub, safe to share between sessions.
type Snapshot struct {
	Players int
	Top     []Entry // Best first
}

// Best returns the leading entry, if any.
func (s *Snapshot) Best() (Entry, bool) {
	if s == nil || len(s.Top) == 0 {
		return Entry{}, false
	}
	return s.Top[0], true
}

// Leaderboard keeps the best results, highest score first. Equal scores
// keep the order they were submitted in.
type Leaderboard struct {
	entries []Entry
	size    int
}

// NewLeaderboard creates a leaderboard holding at most size entries.
func NewLeaderboard(size int) *Leaderboard {
	return &Leaderboard{size: max(size, 1)}
}

// Add inserts an entry and returns its 0-based rank, or -1 when it did not
// make the board.
func (l *Leaderboard) Add(e Entry) int {
	i := slices.IndexFunc(l.entries, func(other Entry) bool {
		return other.Score < e.Score
	})
	if i < 0 {
		i = len(l.entries)
	}
	if i >= l.size {
		return -1
	}
	l.entries = slices.Insert(l.entries, i, e)
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}
	return i
}

// Entries returns a copy of the board.
func (l *Leaderboard) Entries() []Entry {
	return slices.Clone(l.entries)
}

// entryFor turns a game result into a leaderboard entry.
func entryFor(username string, r game.Result, at time.Time) Entry {
	return Entry{
		Username: username,
		Preset:   r.Preset,
		Score:    r.Score,
		MaxScore: r.MaxScore,
		At:       at,
	}
}
