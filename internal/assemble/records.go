package assemble

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/warc"
)

// RecordEmitter writes resolved conversations back out as records in
// the archive wire format: fetched entries become request/response
// pairs, reused entries re-emit the original record augmented with
// cross-reference headers.
type RecordEmitter struct {
	w        *warc.Writer
	software string

	// now is injectable for deterministic WARC-Date values in tests.
	now func() time.Time
}

// NewRecordEmitter creates an emitter writing to w. software names the
// generating tool for warcinfo provenance records.
func NewRecordEmitter(w io.Writer, software string) *RecordEmitter {
	return &RecordEmitter{
		w:        warc.NewWriter(w, true),
		software: software,
		now:      time.Now,
	}
}

// BeginFile emits the once-per-input-file warcinfo provenance record.
func (e *RecordEmitter) BeginFile(inputPath string) error {
	rec := warc.NewRecord()
	rec.Set(warc.HeaderType, warc.TypeWarcinfo)
	rec.Set(warc.HeaderDate, e.now().UTC().Format(time.RFC3339))
	if inputPath != "" {
		rec.Set("WARC-Filename", inputPath)
	}
	rec.Set(warc.HeaderContentType, "application/warc-fields")
	rec.Payload = []byte(fmt.Sprintf("software: %s\r\nformat: WARC File Format 1.0\r\n", e.software))
	return e.w.WriteRecord(rec)
}

// EmitConversation writes one conversation. original is the archive
// record the seed came from; it is re-emitted for entries that carry
// no fresh response. Entries that failed deep in the chain have
// nothing to emit and are skipped (the failure was already logged).
func (e *RecordEmitter) EmitConversation(conv *domain.Conversation, original *warc.Record) error {
	for i := range conv.Entries {
		entry := &conv.Entries[i]
		switch {
		case entry.RawResponse != nil:
			if err := e.emitFetched(entry); err != nil {
				return err
			}
		case entry.Item != nil && original != nil:
			if err := e.emitReused(entry, original); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitFetched writes a synthetic request record and the captured
// response record, correlated through WARC-Concurrent-To.
func (e *RecordEmitter) emitFetched(entry *domain.ChainEntry) error {
	responseID := warc.NewRecordID()
	target := statusEndpointURL(entry.ID)
	date := e.now().UTC().Format(time.RFC3339)

	req := warc.NewRecord()
	req.Set(warc.HeaderType, warc.TypeRequest)
	req.Set(warc.HeaderDate, date)
	req.Set(warc.HeaderTargetURI, target)
	req.Set(warc.HeaderConcurrentTo, responseID)
	req.Set(warc.HeaderContentType, "application/http;msgtype=request")
	req.Payload = []byte(fmt.Sprintf("GET %s HTTP/1.1\r\nHost: api.twitter.com\r\n\r\n",
		requestPath(entry.ID)))
	if err := e.w.WriteRecord(req); err != nil {
		return err
	}

	resp := warc.NewRecord()
	resp.Set(warc.HeaderType, warc.TypeResponse)
	resp.Set(warc.HeaderDate, date)
	resp.Set(warc.HeaderTargetURI, target)
	resp.Set(warc.HeaderRecordID, responseID)
	resp.Set(warc.HeaderContentType, "application/json")
	setCrossReferences(resp, entry)
	resp.Payload = entry.RawResponse
	return e.w.WriteRecord(resp)
}

// emitReused re-emits the original record with cross-reference headers
// added. Caller-supplied headers and payload are preserved; a missing
// record id is synthesised by the writer.
func (e *RecordEmitter) emitReused(entry *domain.ChainEntry, original *warc.Record) error {
	rec := original.Clone()
	setCrossReferences(rec, entry)
	return e.w.WriteRecord(rec)
}

// setCrossReferences adds the reply-to / replied-by / retweeted-by
// headers derived from the entry's item and back-links.
func setCrossReferences(rec *warc.Record, entry *domain.ChainEntry) {
	if item := entry.Item; item != nil {
		if item.InReplyToID != 0 {
			rec.Set(warc.HeaderReplyTo, StatusURL(item.InReplyToAuthor, item.InReplyToID))
		} else if item.RetweetedID != 0 {
			rec.Set(warc.HeaderReplyTo, StatusURL(item.RetweetedAuthor, item.RetweetedID))
		}
	}
	if entry.RepliedBy != nil {
		rec.Set(warc.HeaderRepliedBy, StatusURL(entry.RepliedBy.Author, entry.RepliedBy.ID))
	}
	if entry.RetweetedBy != nil {
		rec.Set(warc.HeaderRetweetedBy, StatusURL(entry.RetweetedBy.Author, entry.RetweetedBy.ID))
	}
}

func requestPath(id int64) string {
	params := url.Values{
		"id":         {strconv.FormatInt(id, 10)},
		"tweet_mode": {"extended"},
	}
	return "/1.1/statuses/show.json?" + params.Encode()
}

func statusEndpointURL(id int64) string {
	return "https://api.twitter.com" + requestPath(id)
}
