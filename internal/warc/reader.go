package warc

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// HeaderEnd selects how the decoder recognises the end of a header
// block. The capture tooling produced two variants.
type HeaderEnd int

const (
	// HeaderEndBlankLine ends the header block at the first blank line;
	// the payload follows verbatim until the next marker line.
	HeaderEndBlankLine HeaderEnd = iota

	// HeaderEndContentLength ends the header block at the Content-Length
	// header with no blank-line requirement. Used by the stricter
	// upstream capture variant.
	HeaderEndContentLength
)

var markerRe = regexp.MustCompile(`^WARC/\d+(?:\.\d+)?$`)

// Reader decodes a stream into a lazy sequence of records.
//
// Decoding is permissive: irregular-looking headers are kept as-is,
// fragments with no payload are dropped, and junk before the first
// marker line is ignored. The only fatal condition is a header line
// with no colon, because header identity cannot be recovered.
type Reader struct {
	br     *bufio.Reader
	policy HeaderEnd

	cur      *Record
	inHeader bool
	payload  strings.Builder
	err      error
	eof      bool
}

// NewReader creates a decoder over r using the given header
// termination policy.
func NewReader(r io.Reader, policy HeaderEnd) *Reader {
	return &Reader{br: bufio.NewReader(r), policy: policy}
}

// Next returns the next record, or io.EOF when the stream is
// exhausted. After any non-nil error the reader is stopped.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	for {
		line, readErr := r.br.ReadString('\n')

		if line != "" {
			if rec, err := r.consume(line); err != nil {
				r.err = err
				return nil, err
			} else if rec != nil {
				return rec, nil
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				r.err = readErr
				return nil, readErr
			}
			// A trailing fragment with payload is flushed as a final
			// record; one without is dropped.
			rec := r.flush()
			r.err = io.EOF
			if rec != nil {
				return rec, nil
			}
			return nil, io.EOF
		}
	}
}

// consume feeds one line into the scanner state, returning a completed
// record when the line's marker closed one.
func (r *Reader) consume(line string) (*Record, error) {
	trimmed := strings.TrimRight(line, "\r\n")

	if markerRe.MatchString(trimmed) {
		done := r.flush()
		r.cur = NewRecord()
		r.inHeader = true
		r.payload.Reset()
		return done, nil
	}

	if r.cur == nil {
		// Preamble junk before the first marker line.
		return nil, nil
	}

	if r.inHeader {
		if r.policy == HeaderEndBlankLine && trimmed == "" {
			r.inHeader = false
			return nil, nil
		}
		name, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, &MalformedHeaderError{Line: trimmed}
		}
		r.cur.add(name, strings.TrimLeft(value, " "))
		if r.policy == HeaderEndContentLength && name == HeaderContentLength {
			r.inHeader = false
		}
		return nil, nil
	}

	r.payload.WriteString(line)
	return nil, nil
}

// flush finalises the record under construction. Records whose payload
// is empty or whitespace-only are dropped, matching the capture
// tooling's treatment of unterminated fragments.
func (r *Reader) flush() *Record {
	if r.cur == nil {
		return nil
	}
	body := strings.Trim(r.payload.String(), "\r\n")
	rec := r.cur
	r.cur = nil
	r.payload.Reset()
	if strings.TrimSpace(body) == "" {
		return nil
	}
	rec.Payload = []byte(body)
	return rec
}
