package domain

// Item is the canonical representation of a tweet or profile extracted
// from an archived record's payload. It is created once per record and
// never mutated afterwards.
type Item struct {
	// ID is the numeric status id. Zero for empty items.
	ID int64

	// Author is the screen name of the account that posted the status.
	// For profile captures this is the profile's own screen name.
	Author string

	// Text is the status text. May be empty when the payload carried none.
	Text string

	// Description is the profile bio, used as a display fallback when a
	// profile capture has no status text.
	Description string

	// Truncated reports whether the text looks cut off: the payload had
	// no full_text field and the text contains a horizontal ellipsis.
	Truncated bool

	// Profile is true when the item was extracted from a profile capture
	// (user object wrapping a status) rather than a bare status.
	Profile bool

	// InReplyToID is the status this one replies to. Zero when not a reply.
	InReplyToID int64

	// InReplyToAuthor is the screen name of the replied-to account.
	InReplyToAuthor string

	// RetweetedID is the original status when this one is a retweet.
	// Zero when not a retweet. Never set together with InReplyToID.
	RetweetedID int64

	// RetweetedAuthor is the screen name of the retweeted account.
	RetweetedAuthor string
}

// IsEmpty reports whether the item carries no status at all (a profile
// capture with no attached status, or an unrecognised payload).
func (i *Item) IsEmpty() bool {
	return i == nil || i.ID == 0
}

// AncestorID returns the next status id up the conversation, preferring
// the reply target. Zero means the chain ends here.
func (i *Item) AncestorID() int64 {
	if i == nil {
		return 0
	}
	if i.InReplyToID != 0 {
		return i.InReplyToID
	}
	return i.RetweetedID
}
