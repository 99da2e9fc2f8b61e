package driven

import (
	"context"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// SeenStore persists resolved status ids across runs so a re-run over
// the same archives skips ids it already fetched. Nil means dedup
// state is memory-only and lasts one run.
type SeenStore interface {
	// Seen reports whether the id was resolved in this or an earlier run.
	Seen(ctx context.Context, id int64) (bool, error)

	// MarkSeen records a resolved id with the outcome of its fetch.
	MarkSeen(ctx context.Context, id int64, outcome domain.FetchOutcome) error

	// Close releases the underlying storage.
	Close() error
}
