// Package cli wires the cobra command tree for the retweever tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retweever-cli/internal/logger"
	"github.com/custodia-labs/retweever-cli/internal/warc"
)

// version is overridden at release build time via -ldflags.
var version = "dev"

var (
	flagQuiet   bool
	flagVerbose bool
	flagDebug   bool
	flagLogPath string
	flagStrict  bool

	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "retweever",
	Short: "Recover truncated tweets and their conversations from WARC archives",
	Long: `Retweever reads WARC capture files of Twitter API traffic, finds tweets
whose text was truncated, re-fetches them and their reply/retweet ancestry
from the API under a fetch budget, and writes everything back out as
human-readable text or as new WARC records.`,
	PersistentPreRunE: configureLogging,
	SilenceUsage:      true,
}

// Execute runs the root command. It returns the command error so main
// can map it to an exit status.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "only print critical messages")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "print informational messages")
	pf.BoolVarP(&flagDebug, "debug", "D", false, "print debug messages")
	pf.StringVarP(&flagLogPath, "log", "L", "",
		"print log messages to this file instead of stderr (overwrites the file)")
	pf.BoolVar(&flagStrict, "strict-headers", false,
		"end record header blocks at Content-Length instead of the first blank line")
}

func configureLogging(_ *cobra.Command, _ []string) error {
	if flagLogPath != "" {
		f, err := os.Create(flagLogPath)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		logger.SetOutput(f)
	}

	switch {
	case flagDebug:
		logger.SetLevel(logger.LevelDebug)
	case flagVerbose:
		logger.SetLevel(logger.LevelInfo)
	case flagQuiet:
		logger.SetLevel(logger.LevelCritical)
	default:
		logger.SetLevel(logger.LevelError)
	}
	return nil
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// headerEndPolicy maps the --strict-headers flag onto the decoder
// policy.
func headerEndPolicy() warc.HeaderEnd {
	if flagStrict {
		return warc.HeaderEndContentLength
	}
	return warc.HeaderEndBlankLine
}
