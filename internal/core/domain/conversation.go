package domain

// FetchOutcome describes how a chain entry's data was obtained.
type FetchOutcome string

const (
	// OutcomeSuccess means the status was fetched from the API.
	OutcomeSuccess FetchOutcome = "success"
	// OutcomeRemoteError means the API returned a non-success status.
	OutcomeRemoteError FetchOutcome = "remote_error"
	// OutcomeReused means the archived data was used without a fetch.
	OutcomeReused FetchOutcome = "reused"
	// OutcomeNotFetched means no fetch was attempted (offline mode or
	// budget exhausted before this entry's turn).
	OutcomeNotFetched FetchOutcome = "not_fetched"
)

// BackLink identifies the chain entry one step closer to the seed, so a
// renderer can annotate "replied by" / "retweeted by" without walking
// the chain again.
type BackLink struct {
	ID     int64
	Author string
}

// ChainEntry is one node visited during a conversation walk.
// Entries are created by the resolver and not mutated afterwards.
type ChainEntry struct {
	// ID is the status id this entry stands for.
	ID int64

	// Item is the normalised status. Nil when the fetch failed and no
	// local fallback was available.
	Item *Item

	// RawResponse is the verbatim API response body. Nil when the entry
	// reuses archived data instead of a fetch.
	RawResponse []byte

	// RepliedBy links to the entry that replied to this one, when the
	// walk reached this entry by following a reply edge.
	RepliedBy *BackLink

	// RetweetedBy links to the entry that retweeted this one, when the
	// walk reached this entry by following a retweet edge.
	RetweetedBy *BackLink

	// Outcome records how the entry's data was obtained.
	Outcome FetchOutcome

	// StatusCode is the HTTP status of a failed fetch. Zero otherwise.
	StatusCode int
}

// Conversation is the ordered ancestry walk from a seed status outward
// to the oldest ancestor reached.
type Conversation struct {
	// Entries run from the seed to the oldest ancestor, in visit order.
	Entries []ChainEntry

	// BudgetHit is true when the walk stopped because the fetch budget
	// ran out before the chain did.
	BudgetHit bool
}
