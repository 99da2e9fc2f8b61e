package warc

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTweet = `{"id": 1, "text": "hello"}`

func readAll(t *testing.T, input string, policy HeaderEnd) []*Record {
	t.Helper()
	r := NewReader(strings.NewReader(input), policy)
	var records []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func TestReaderBlankLinePolicy(t *testing.T) {
	input := "WARC/1.0\n" +
		"WARC-Type: response\n" +
		"WARC-Target-URI: https://api.twitter.com/1.1/statuses/show.json?id=1\n" +
		"\n" +
		sampleTweet + "\n" +
		"\n" +
		"WARC/1.0\n" +
		"WARC-Type: response\n" +
		"\n" +
		`{"id": 2, "text": "again"}` + "\n" +
		"\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 2)

	typ, ok := records[0].Get(HeaderType)
	require.True(t, ok)
	assert.Equal(t, "response", typ)
	assert.Equal(t, sampleTweet, string(records[0].Payload))

	uri, ok := records[0].Get(HeaderTargetURI)
	require.True(t, ok)
	assert.Equal(t, "https://api.twitter.com/1.1/statuses/show.json?id=1", uri)

	assert.Equal(t, `{"id": 2, "text": "again"}`, string(records[1].Payload))
}

func TestReaderContentLengthPolicy(t *testing.T) {
	// The stricter variant ends the header block at Content-Length with
	// no blank line in between.
	input := "WARC/1.0\n" +
		"WARC-Type: response\n" +
		"Content-Length: 26\n" +
		sampleTweet + "\n" +
		"\n"

	records := readAll(t, input, HeaderEndContentLength)
	require.Len(t, records, 1)
	assert.Equal(t, sampleTweet, string(records[0].Payload))

	length, ok := records[0].Get(HeaderContentLength)
	require.True(t, ok)
	assert.Equal(t, "26", length)
}

func TestReaderHeaderOrderAndDuplicates(t *testing.T) {
	input := "WARC/1.0\n" +
		"B: 1\n" +
		"A: 2\n" +
		"B: 3\n" +
		"\n" +
		"payload\n" +
		"\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"B", "A"}, records[0].Names())
	b, _ := records[0].Get("B")
	assert.Equal(t, "1, 3", b)
}

func TestReaderHeaderValueColonAndSpaces(t *testing.T) {
	input := "WARC/1.0\n" +
		"WARC-Target-URI: https://twitter.com/status/1\n" +
		"\n" +
		"x\n\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)
	uri, _ := records[0].Get(HeaderTargetURI)
	assert.Equal(t, "https://twitter.com/status/1", uri)
}

func TestReaderDropsPayloadlessFragments(t *testing.T) {
	// A trailing marker+headers with no payload is discarded; an empty
	// record between two markers likewise.
	input := "WARC/1.0\n" +
		"WARC-Type: metadata\n" +
		"\n" +
		"\n" +
		"WARC/1.0\n" +
		"WARC-Type: response\n" +
		"\n" +
		"real\n" +
		"\n" +
		"WARC/1.0\n" +
		"WARC-Type: request\n" +
		"\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)
	assert.Equal(t, "real", string(records[0].Payload))
}

func TestReaderFlushesTrailingPayloadAtEOF(t *testing.T) {
	// No terminating marker, but the fragment has payload: kept.
	input := "WARC/1.0\n" +
		"WARC-Type: response\n" +
		"\n" +
		sampleTweet

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)
	assert.Equal(t, sampleTweet, string(records[0].Payload))
}

func TestReaderIgnoresPreamble(t *testing.T) {
	input := "garbage before the first marker\n" +
		"WARC/1.0\n" +
		"WARC-Type: response\n" +
		"\n" +
		"ok\n\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", string(records[0].Payload))
}

func TestReaderMalformedHeaderIsFatal(t *testing.T) {
	input := "WARC/1.0\n" +
		"no colon here\n" +
		"\n" +
		"payload\n\n"

	r := NewReader(strings.NewReader(input), HeaderEndBlankLine)
	_, err := r.Next()
	require.Error(t, err)

	var malformed *MalformedHeaderError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "no colon here", malformed.Line)

	// The stream stays stopped.
	_, err = r.Next()
	assert.ErrorAs(t, err, &malformed)
}

func TestReaderPreservesInteriorBlankLines(t *testing.T) {
	input := "WARC/1.0\n" +
		"WARC-Type: metadata\n" +
		"\n" +
		"line one\n" +
		"\n" +
		"line two\n" +
		"\n" +
		"WARC/1.0\n" +
		"WARC-Type: metadata\n" +
		"\n" +
		"next\n\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 2)
	assert.Equal(t, "line one\n\nline two", string(records[0].Payload))
}

func TestReaderAcceptsOtherVersions(t *testing.T) {
	input := "WARC/1.1\n" +
		"WARC-Type: response\n" +
		"\n" +
		"v11\n\n"

	records := readAll(t, input, HeaderEndBlankLine)
	require.Len(t, records, 1)
	assert.Equal(t, "v11", string(records[0].Payload))
}

func TestJSONPayload(t *testing.T) {
	rec := NewRecord()
	rec.Set(HeaderType, TypeResponse)
	rec.Payload = []byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n" + sampleTweet)

	var got map[string]any
	require.NoError(t, rec.JSONPayload(&got))
	assert.Equal(t, float64(1), got["id"])
}

func TestJSONPayloadError(t *testing.T) {
	rec := NewRecord()
	rec.Set(HeaderType, TypeMetadata)
	rec.Payload = []byte("<html>not json at all</html>")

	var got map[string]any
	err := rec.JSONPayload(&got)
	require.Error(t, err)

	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Contains(t, payloadErr.Prefix, "<html>")
}
