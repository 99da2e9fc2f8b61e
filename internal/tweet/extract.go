// Package tweet normalises archived Twitter API payloads into the
// domain Item type. Classification is a closed three-way dispatch on
// payload shape: a bare status, a profile wrapping a status, or
// nothing usable.
package tweet

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// Kind is the classification of an archived payload.
type Kind string

const (
	// KindTweet is a status object (has an author sub-object).
	KindTweet Kind = "tweet"
	// KindProfile is a user object wrapping a status.
	KindProfile Kind = "profile"
	// KindEmpty is a profile with no attached status, or an
	// unrecognised payload. Empties are counted but never walked.
	KindEmpty Kind = "empty"
)

// Ellipsis is the truncation glyph the API appends to cut-off text.
const Ellipsis = '…'

type apiUser struct {
	ScreenName string `json:"screen_name"`
}

type apiStatus struct {
	ID                  int64      `json:"id"`
	Text                string     `json:"text"`
	FullText            *string    `json:"full_text"`
	User                *apiUser   `json:"user"`
	InReplyToStatusID   int64      `json:"in_reply_to_status_id"`
	InReplyToScreenName string     `json:"in_reply_to_screen_name"`
	RetweetedStatus     *apiStatus `json:"retweeted_status"`
}

// apiPayload covers both shapes: status fields inline for tweets,
// outer profile fields plus a nested status for profile captures.
type apiPayload struct {
	apiStatus
	ScreenName  string     `json:"screen_name"`
	Description string     `json:"description"`
	Status      *apiStatus `json:"status"`
}

// Extract classifies a decoded payload and normalises it into an Item.
// KindEmpty comes back with a nil Item. The error is non-nil only when
// the payload is not JSON at all.
func Extract(raw []byte) (*domain.Item, Kind, error) {
	var p apiPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, KindEmpty, err
	}

	switch {
	case p.User != nil:
		return itemFromStatus(&p.apiStatus, p.User.ScreenName, false, ""), KindTweet, nil
	case p.Status != nil:
		return itemFromStatus(p.Status, p.ScreenName, true, p.Description), KindProfile, nil
	default:
		return nil, KindEmpty, nil
	}
}

func itemFromStatus(s *apiStatus, author string, profile bool, description string) *domain.Item {
	item := &domain.Item{
		ID:              s.ID,
		Author:          author,
		Text:            selectText(s),
		Description:     description,
		Truncated:       looksTruncated(s),
		Profile:         profile,
		InReplyToID:     s.InReplyToStatusID,
		InReplyToAuthor: s.InReplyToScreenName,
	}
	// A retweet carries the retweeted status inline; reply and retweet
	// edges never appear together in archived data.
	if rt := s.RetweetedStatus; rt != nil && item.InReplyToID == 0 {
		item.RetweetedID = rt.ID
		if rt.User != nil {
			item.RetweetedAuthor = rt.User.ScreenName
		}
	}
	return item
}

// selectText prefers full_text over text. full_text is only present
// when the status was fetched in extended mode and always carries the
// complete content.
func selectText(s *apiStatus) string {
	if s.FullText != nil {
		return *s.FullText
	}
	return s.Text
}

// looksTruncated reports whether the status text looks cut off: no
// full_text field and the short text contains the horizontal ellipsis.
func looksTruncated(s *apiStatus) bool {
	if s.FullText != nil {
		return false
	}
	return strings.ContainsRune(s.Text, Ellipsis)
}
