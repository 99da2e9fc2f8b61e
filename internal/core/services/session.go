package services

import (
	"context"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retweever-cli/internal/logger"
)

// Session carries the run-scoped fetch budget and dedup cache. One
// session is shared by every conversation walk of a run; it is not
// safe for concurrent use, matching the tool's sequential model.
type Session struct {
	remaining int
	dedup     bool
	seen      map[int64]int
	store     driven.SeenStore
}

// NewSession creates the shared state for one run. budget caps the
// total number of remote fetches; store may be nil for memory-only
// dedup.
func NewSession(budget int, dedup bool, store driven.SeenStore) *Session {
	if budget < 0 {
		budget = 0
	}
	return &Session{
		remaining: budget,
		dedup:     dedup,
		seen:      make(map[int64]int),
		store:     store,
	}
}

// Remaining returns how many remote fetches the run may still make.
func (s *Session) Remaining() int {
	return s.remaining
}

// Exhausted reports whether the fetch budget has run out.
func (s *Session) Exhausted() bool {
	return s.remaining == 0
}

// consume spends one unit of budget. The counter clamps at zero.
func (s *Session) consume() {
	if s.remaining > 0 {
		s.remaining--
	}
}

// isSeen reports whether an id was already resolved, consulting the
// persistent store when one is wired. Store errors degrade to the
// in-memory answer.
func (s *Session) isSeen(ctx context.Context, id int64) bool {
	if !s.dedup {
		return false
	}
	if s.seen[id] > 0 {
		return true
	}
	if s.store != nil {
		seen, err := s.store.Seen(ctx, id)
		if err != nil {
			logger.Warn("seen store lookup for %d failed: %v", id, err)
			return false
		}
		return seen
	}
	return false
}

// markSeen records a successfully resolved id.
func (s *Session) markSeen(ctx context.Context, id int64, outcome domain.FetchOutcome) {
	if !s.dedup {
		return
	}
	s.seen[id]++
	if s.store != nil {
		if err := s.store.MarkSeen(ctx, id, outcome); err != nil {
			logger.Warn("seen store write for %d failed: %v", id, err)
		}
	}
}
