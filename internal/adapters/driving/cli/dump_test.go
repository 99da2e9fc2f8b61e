package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCmd_Use(t *testing.T) {
	assert.Equal(t, "dump [flags] WARC_FILE...", dumpCmd.Use)
}

func TestDumpCmd_HasListFlag(t *testing.T) {
	flag := dumpCmd.Flags().Lookup("list")
	require.NotNil(t, flag, "list flag should exist")
	assert.Equal(t, "l", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestDumpCmd_SingleFileProducesArray(t *testing.T) {
	path := writeArchive(t,
		`{"id": 1, "text": "one"}`,
		`{"id": 2, "text": "two"}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dump", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	var payloads []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payloads))
	require.Len(t, payloads, 2)
	assert.Equal(t, "one", payloads[0]["text"])
	assert.Equal(t, "two", payloads[1]["text"])
}

func TestDumpCmd_MultipleFilesCarryPaths(t *testing.T) {
	a := writeArchive(t, `{"id": 1}`)
	b := writeArchive(t, `{"id": 2}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dump", a, b})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	var dumps []struct {
		Path   string           `json:"path"`
		Tweets []map[string]any `json:"tweets"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dumps))
	require.Len(t, dumps, 2)
	assert.Equal(t, a, dumps[0].Path)
	assert.Equal(t, b, dumps[1].Path)
	require.Len(t, dumps[0].Tweets, 1)
}

func TestDumpCmd_ListPrintsOneObjectPerLine(t *testing.T) {
	path := writeArchive(t,
		`{"id": 1, "text": "one"}`,
		`{"id": 2, "text": "two"}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dump", "--list", path})
	defer func() {
		rootCmd.SetArgs(nil)
		flagDumpList = false
	}()

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var obj map[string]any
		assert.NoError(t, json.Unmarshal([]byte(line), &obj))
	}
}

func TestDumpCmd_SkipsInvalidPayloads(t *testing.T) {
	path := writeArchive(t,
		`not json`,
		`{"id": 5}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dump", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	var payloads []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payloads))
	require.Len(t, payloads, 1)
	assert.Equal(t, float64(5), payloads[0]["id"])
}
