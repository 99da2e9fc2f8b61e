package warc

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// NewRecordID returns a fresh record identifier in the urn:uuid form
// the archive format expects. The capture tooling omitted these; every
// record this system emits carries one.
func NewRecordID() string {
	return "<urn:uuid:" + uuid.NewString() + ">"
}

// Writer encodes records into the wire format: marker line, headers in
// insertion order, blank line, payload, blank-line terminator.
type Writer struct {
	bw *bufio.Writer

	// requireLength makes the writer synthesise a Content-Length header
	// from the payload when the caller supplied none.
	requireLength bool
}

// NewWriter creates an encoder. When requireLength is true a missing
// Content-Length header is computed from the payload; caller-supplied
// values are never overwritten.
func NewWriter(w io.Writer, requireLength bool) *Writer {
	return &Writer{bw: bufio.NewWriter(w), requireLength: requireLength}
}

// WriteRecord emits one record. A missing record identifier is
// synthesised as a random UUID; the record itself is not mutated.
func (w *Writer) WriteRecord(rec *Record) error {
	if _, err := fmt.Fprintln(w.bw, Version); err != nil {
		return err
	}

	for _, name := range rec.Names() {
		value, _ := rec.Get(name)
		if _, err := fmt.Fprintf(w.bw, "%s: %s\n", name, value); err != nil {
			return err
		}
	}
	if _, ok := rec.Get(HeaderRecordID); !ok {
		if _, err := fmt.Fprintf(w.bw, "%s: %s\n", HeaderRecordID, NewRecordID()); err != nil {
			return err
		}
	}
	if _, ok := rec.Get(HeaderContentLength); w.requireLength && !ok {
		if _, err := fmt.Fprintf(w.bw, "%s: %d\n", HeaderContentLength, len(rec.Payload)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w.bw); err != nil {
		return err
	}
	if len(rec.Payload) > 0 {
		if _, err := w.bw.Write(rec.Payload); err != nil {
			return err
		}
		if rec.Payload[len(rec.Payload)-1] != '\n' {
			if err := w.bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w.bw); err != nil {
		return err
	}
	return w.bw.Flush()
}
