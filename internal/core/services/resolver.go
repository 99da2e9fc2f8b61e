package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retweever-cli/internal/logger"
)

// Ensure Resolver implements the driving port.
var _ driving.ConversationResolver = (*Resolver)(nil)

// Resolver reconstructs conversations: starting from a seed item it
// decides whether the archived data suffices or a re-fetch is needed,
// then follows reply/retweet ancestry through the remote API under the
// session's budget and dedup cache.
type Resolver struct {
	fetcher driven.StatusFetcher
	session *Session

	// offline disables all fetching; every seed is rendered from
	// archived data alone.
	offline bool
}

// NewResolver creates a resolver sharing the given session across calls.
func NewResolver(fetcher driven.StatusFetcher, session *Session, offline bool) *Resolver {
	return &Resolver{fetcher: fetcher, session: session, offline: offline}
}

// Resolve walks one seed's ancestry. Fetch failures are recorded in
// the returned entries rather than returned as errors; only context
// cancellation aborts the walk.
func (r *Resolver) Resolve(ctx context.Context, seed *domain.Item) (*domain.Conversation, error) {
	if seed.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}

	conv := &domain.Conversation{}

	// Profiles and complete tweets reuse the archived data; only a
	// truncated tweet is worth a re-fetch of its own id.
	if seed.Profile || !seed.Truncated {
		conv.Entries = append(conv.Entries, domain.ChainEntry{
			ID:      seed.ID,
			Item:    seed,
			Outcome: domain.OutcomeReused,
		})
		if r.offline {
			return conv, nil
		}
		if err := r.walk(ctx, conv, seed.AncestorID(), linksFrom(seed), seed, false); err != nil {
			return conv, err
		}
		return conv, nil
	}

	if r.offline || r.session.Exhausted() {
		// The seed needs a re-fetch we cannot make. Keep the archived
		// data so the output still carries the original.
		if !r.offline {
			conv.BudgetHit = true
			logger.Warn("fetch budget exhausted before re-fetching status %d", seed.ID)
		}
		conv.Entries = append(conv.Entries, domain.ChainEntry{
			ID:      seed.ID,
			Item:    seed,
			Outcome: domain.OutcomeNotFetched,
		})
		return conv, nil
	}

	if err := r.walk(ctx, conv, seed.ID, chainLinks{}, seed, true); err != nil {
		return conv, err
	}
	return conv, nil
}

// chainLinks is the back-link pair describing how the next entry was
// reached: exactly one of the two is set past the seed.
type chainLinks struct {
	repliedBy   *domain.BackLink
	retweetedBy *domain.BackLink
}

// linksFrom derives the back-links the next entry after item should
// carry.
func linksFrom(item *domain.Item) chainLinks {
	switch {
	case item.InReplyToID != 0:
		return chainLinks{repliedBy: &domain.BackLink{ID: item.ID, Author: item.Author}}
	case item.RetweetedID != 0:
		return chainLinks{retweetedBy: &domain.BackLink{ID: item.ID, Author: item.Author}}
	default:
		return chainLinks{}
	}
}

// walk follows ancestry ids until the chain, the budget, or the dedup
// cache ends it. refetchingSeed is true when id is the seed's own id
// being re-fetched for its full text.
func (r *Resolver) walk(
	ctx context.Context, conv *domain.Conversation,
	id int64, links chainLinks, seed *domain.Item, refetchingSeed bool,
) error {
	for id != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Dedup before budget: a cached id costs nothing.
		if r.session.isSeen(ctx, id) {
			logger.Debug("status %d already resolved, ending chain", id)
			return nil
		}

		// Budget before fetch: exhaustion wins over whatever the fetch
		// would have returned.
		if r.session.Exhausted() {
			conv.BudgetHit = true
			logger.Warn("fetch budget exhausted before fetching status %d", id)
			return nil
		}

		item, raw, err := r.fetcher.FetchStatus(ctx, id)
		r.session.consume()

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			code := 0
			var fetchErr *driven.FetchError
			if errors.As(err, &fetchErr) {
				code = fetchErr.StatusCode
			}
			logger.Error("fetching status %d failed: %v", id, err)

			if len(conv.Entries) == 0 {
				// First entry of the walk: keep the archived seed data
				// as a display fallback and keep walking its links.
				conv.Entries = append(conv.Entries, domain.ChainEntry{
					ID:         id,
					Item:       seed,
					Outcome:    domain.OutcomeRemoteError,
					StatusCode: code,
				})
				id = seed.AncestorID()
				links = linksFrom(seed)
				continue
			}

			// Deeper failures truncate the chain; nothing is invented.
			conv.Entries = append(conv.Entries, domain.ChainEntry{
				ID:          id,
				Outcome:     domain.OutcomeRemoteError,
				StatusCode:  code,
				RepliedBy:   links.repliedBy,
				RetweetedBy: links.retweetedBy,
			})
			return nil
		}

		// A re-fetched seed can come back under a different canonical
		// id; keep the archived seed as entry 0 so it is represented
		// exactly once.
		if refetchingSeed && len(conv.Entries) == 0 && item.ID != 0 && item.ID != seed.ID {
			conv.Entries = append(conv.Entries, domain.ChainEntry{
				ID:      seed.ID,
				Item:    seed,
				Outcome: domain.OutcomeReused,
			})
		}

		entryID := id
		if item.ID != 0 {
			entryID = item.ID
		}
		conv.Entries = append(conv.Entries, domain.ChainEntry{
			ID:          entryID,
			Item:        item,
			RawResponse: raw,
			Outcome:     domain.OutcomeSuccess,
			RepliedBy:   links.repliedBy,
			RetweetedBy: links.retweetedBy,
		})
		r.session.markSeen(ctx, id, domain.OutcomeSuccess)

		id = item.AncestorID()
		links = linksFrom(item)
	}
	return nil
}
