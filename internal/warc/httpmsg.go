package warc

import (
	"bytes"
	"regexp"
)

// Request and status line shapes of an embedded HTTP/1.x message.
// Anchored heuristics only; anything that does not match is treated as
// a bare payload.
var (
	requestLineRe = regexp.MustCompile(`^[A-Z]+ \S+ HTTP/\d\.\d$`)
	statusLineRe  = regexp.MustCompile(`^HTTP/\d\.\d \d{3}[^\r\n]*$`)
)

// StripHTTPMessage removes a leading HTTP request or response envelope
// (protocol line plus header block) from a record payload, returning
// the message body. If the payload does not start with a recognisable
// protocol line, or has no blank line separating headers from body, it
// is returned unmodified: the heuristic fails open rather than
// discarding data.
func StripHTTPMessage(payload []byte) []byte {
	nl := bytes.IndexByte(payload, '\n')
	if nl < 0 {
		return payload
	}
	first := bytes.TrimRight(payload[:nl], "\r")
	if !requestLineRe.Match(first) && !statusLineRe.Match(first) {
		return payload
	}

	rest := payload[nl+1:]
	for _, sep := range [][]byte{[]byte("\r\n\r\n"), []byte("\n\n")} {
		if i := bytes.Index(rest, sep); i >= 0 {
			return rest[i+len(sep):]
		}
	}
	return payload
}
