// Package warc implements a permissive codec for the WARC-style archive
// format the capture tooling writes: a marker line (`WARC/1.0`), a block
// of colon-delimited headers, and an opaque payload.
//
// The decoder deliberately tolerates the non-conformant variants found
// in real capture files (missing record ids, missing blank lines,
// payloads that are bare JSON instead of HTTP messages). The encoder
// emits records the stricter tools can read back, synthesising the
// headers the originals lacked.
package warc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Version is the marker line emitted for new records.
const Version = "WARC/1.0"

// Header names used by this system. Names are case-sensitive on the
// wire; these are the canonical spellings the capture tooling uses.
const (
	HeaderType              = "WARC-Type"
	HeaderDate              = "WARC-Date"
	HeaderTargetURI         = "WARC-Target-URI"
	HeaderRecordID          = "WARC-Record-ID"
	HeaderConcurrentTo      = "WARC-Concurrent-To"
	HeaderRefersToTargetURI = "WARC-Refers-To-Target-URI"
	HeaderContentLength     = "Content-Length"
	HeaderContentType       = "Content-Type"

	// Cross-reference headers added when re-emitting resolved records.
	HeaderReplyTo     = "X-Retweever-Reply-To"
	HeaderRepliedBy   = "X-Retweever-Replied-By"
	HeaderRetweetedBy = "X-Retweever-Retweeted-By"
)

// Record types relevant to this system.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeWarcinfo = "warcinfo"
	TypeMetadata = "metadata"
)

// Record is one header+payload unit of the archive format. Header
// insertion order is preserved; duplicate names decoded from a stream
// are concatenated in encounter order.
type Record struct {
	names  []string
	values map[string]string

	// Payload is the raw record body, without the blank-line record
	// terminator or a trailing newline.
	Payload []byte
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Get returns the value of a header and whether it is present.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set stores a header value, appending the name to the insertion order
// on first use and overwriting on repeat use.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// add records a decoded header line. A repeated name keeps its first
// position and the values are joined in encounter order; the duplicate
// semantics of such headers are unknown, so nothing is discarded.
func (r *Record) add(name, value string) {
	if prev, ok := r.values[name]; ok {
		r.values[name] = prev + ", " + value
		return
	}
	r.Set(name, value)
}

// Names returns the header names in insertion order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Type returns the WARC-Type header, or the empty string.
func (r *Record) Type() string {
	v, _ := r.Get(HeaderType)
	return v
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := NewRecord()
	for _, name := range r.names {
		c.Set(name, r.values[name])
	}
	c.Payload = append([]byte(nil), r.Payload...)
	return c
}

// Body returns the record payload with any embedded HTTP message
// envelope stripped. Request and response records wrap their data in
// an HTTP message; other types carry it bare. Stripping fails open:
// a payload that does not look like an HTTP message comes back as-is.
func (r *Record) Body() []byte {
	switch r.Type() {
	case TypeRequest, TypeResponse:
		return StripHTTPMessage(r.Payload)
	default:
		return r.Payload
	}
}

// JSONPayload unmarshals the record body into v.
func (r *Record) JSONPayload(v any) error {
	body := r.Body()
	if err := json.Unmarshal(body, v); err != nil {
		return NewPayloadError(body, err)
	}
	return nil
}

// payloadPrefixLen bounds how much of a bad payload ends up in logs.
const payloadPrefixLen = 80

func payloadPrefix(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > payloadPrefixLen {
		s = s[:payloadPrefixLen]
	}
	return s
}

// MalformedHeaderError indicates a header line whose identity cannot be
// recovered (no colon). It is fatal to the stream being decoded.
type MalformedHeaderError struct {
	Line string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("warc: malformed header line %q", e.Line)
}

// PayloadError indicates a payload that should have been JSON but was
// not parseable. It carries a bounded prefix of the offending payload
// for diagnostics; the record is skippable.
type PayloadError struct {
	Prefix string
	Err    error
}

// NewPayloadError wraps a decode failure with a bounded prefix of the
// offending payload.
func NewPayloadError(body []byte, err error) *PayloadError {
	return &PayloadError{Prefix: payloadPrefix(body), Err: err}
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("warc: undecodable payload starting %q: %v", e.Prefix, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
