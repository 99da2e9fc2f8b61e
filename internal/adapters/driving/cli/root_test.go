package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retweever-cli/internal/logger"
	"github.com/custodia-labs/retweever-cli/internal/warc"
)

// writeArchive builds a blank-line-terminated capture file from the
// given payloads and returns its path.
func writeArchive(t *testing.T, payloads ...string) string {
	t.Helper()
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString("WARC/1.0\n")
		b.WriteString("WARC-Type: response\n")
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "capture.warc")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0600))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "retweever", rootCmd.Use)
}

func TestRootCmd_HasVerbosityFlags(t *testing.T) {
	pf := rootCmd.PersistentFlags()

	quiet := pf.Lookup("quiet")
	require.NotNil(t, quiet)
	assert.Equal(t, "q", quiet.Shorthand)

	verbose := pf.Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	debug := pf.Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "D", debug.Shorthand)

	log := pf.Lookup("log")
	require.NotNil(t, log)
	assert.Equal(t, "L", log.Shorthand)
}

func TestHeaderEndPolicy_DefaultsToBlankLine(t *testing.T) {
	assert.Equal(t, warc.HeaderEndBlankLine, headerEndPolicy())
}

func TestHeaderEndPolicy_StrictSelectsContentLength(t *testing.T) {
	flagStrict = true
	defer func() { flagStrict = false }()

	assert.Equal(t, warc.HeaderEndContentLength, headerEndPolicy())
}

func TestConfigureLogging_DebugFlag(t *testing.T) {
	flagDebug = true
	defer func() {
		flagDebug = false
		require.NoError(t, configureLogging(nil, nil))
	}()

	require.NoError(t, configureLogging(nil, nil))
	assert.True(t, logger.IsDebug())
}

func TestConfigureLogging_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	flagLogPath = path
	defer func() {
		flagLogPath = ""
		closeLogFile()
		logger.SetOutput(os.Stderr)
	}()

	require.NoError(t, configureLogging(nil, nil))
	logger.Error("boom")
	closeLogFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}
