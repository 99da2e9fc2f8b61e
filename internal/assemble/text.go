// Package assemble renders resolved conversations, either as
// human-readable text blocks or as a new record stream in the archive
// wire format.
package assemble

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// StatusURL returns the canonical web URL for a status. The authorless
// /i/ form is used when the screen name is unknown.
func StatusURL(author string, id int64) string {
	if author == "" {
		return fmt.Sprintf("https://twitter.com/i/status/%d", id)
	}
	return fmt.Sprintf("https://twitter.com/%s/status/%d", author, id)
}

// FormatEntry renders one chain entry as a text block. fileNum and
// entryNum identify the originating archive position for log
// correlation, matching the capture tooling's "file/entry:" prefix.
func FormatEntry(e *domain.ChainEntry, fileNum, entryNum int) string {
	var b strings.Builder

	if e.Item == nil {
		fmt.Fprintf(&b, "%d/%d: could not fetch status %d", fileNum, entryNum, e.ID)
		if e.StatusCode != 0 {
			fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
		}
		return b.String()
	}

	item := e.Item
	fmt.Fprintf(&b, "%d/%d: %s\n", fileNum, entryNum, StatusURL(item.Author, e.ID))

	switch {
	case item.Text != "":
		b.WriteString(item.Text)
	case item.Description != "":
		b.WriteString(item.Description)
	default:
		b.WriteString("(no text)")
	}

	if item.InReplyToID != 0 {
		fmt.Fprintf(&b, "\nA reply to: %s", StatusURL(item.InReplyToAuthor, item.InReplyToID))
	}
	if e.RepliedBy != nil {
		fmt.Fprintf(&b, "\nReplied by: %s", StatusURL(e.RepliedBy.Author, e.RepliedBy.ID))
	}
	if e.RetweetedBy != nil {
		fmt.Fprintf(&b, "\nRetweeted by: %s", StatusURL(e.RetweetedBy.Author, e.RetweetedBy.ID))
	}
	if e.Outcome == domain.OutcomeRemoteError {
		fmt.Fprintf(&b, "\nRe-fetch failed (HTTP %d); showing archived text", e.StatusCode)
	}

	fmt.Fprintf(&b, "\nLooks truncated: %v", item.Truncated)
	return b.String()
}

// FormatConversation renders a whole conversation as blank-line
// separated blocks, seed first.
func FormatConversation(conv *domain.Conversation, fileNum, firstEntryNum int) string {
	blocks := make([]string, 0, len(conv.Entries))
	for i := range conv.Entries {
		blocks = append(blocks, FormatEntry(&conv.Entries[i], fileNum, firstEntryNum+i))
	}
	return strings.Join(blocks, "\n\n")
}
