package driving

import (
	"context"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// ConversationResolver walks the ancestry of a seed item, merging
// archived data with freshly fetched statuses under a shared fetch
// budget and dedup cache.
type ConversationResolver interface {
	// Resolve produces the conversation for one seed. Fetch failures
	// are recorded in the entries, not returned; the error is non-nil
	// only for infrastructure failure or context cancellation.
	Resolve(ctx context.Context, seed *domain.Item) (*domain.Conversation, error)
}
