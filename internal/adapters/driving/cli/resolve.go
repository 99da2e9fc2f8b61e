package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retweever-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/retweever-cli/internal/assemble"
	"github.com/custodia-labs/retweever-cli/internal/connectors/twitter"
	"github.com/custodia-labs/retweever-cli/internal/core/domain"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retweever-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retweever-cli/internal/core/services"
	"github.com/custodia-labs/retweever-cli/internal/logger"
	"github.com/custodia-labs/retweever-cli/internal/tweet"
	"github.com/custodia-labs/retweever-cli/internal/warc"
)

// profileLookupPrefix marks records captured from the user-lookup
// endpoint; their payloads describe accounts, not statuses.
const profileLookupPrefix = "https://api.twitter.com/1.1/users/show"

var (
	flagOutput      string
	flagMode        string
	flagLimit       int
	flagDedup       bool
	flagSeenDB      string
	flagCredentials string
	flagOffline     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] WARC_FILE...",
	Short: "Re-fetch truncated tweets and reconstruct their conversations",
	Long: `Resolve scans each archive file for tweets and profiles, re-fetches
truncated tweets from the API, follows their reply and retweet ancestry
under the fetch budget, and writes the reconstructed conversations as
text blocks or as a new record stream.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.StringVarP(&flagOutput, "output", "o", "",
		"write output to this file instead of stdout")
	f.StringVar(&flagMode, "mode", "text",
		"output mode: text or records")
	f.IntVarP(&flagLimit, "limit", "n", 15,
		"maximum number of remote fetches for the whole run")
	f.BoolVar(&flagDedup, "dedup", true,
		"skip statuses already resolved during this run")
	f.StringVar(&flagSeenDB, "seen-db", "",
		"sqlite database remembering resolved statuses across runs")
	f.StringVar(&flagCredentials, "credentials", "",
		"path to the TOML credentials file (default ~/.retweever/credentials.toml)")
	f.BoolVar(&flagOffline, "offline", false,
		"never touch the network; render archived data only")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if flagMode != "text" && flagMode != "records" {
		return fmt.Errorf("unknown output mode %q (want text or records)", flagMode)
	}

	ctx := cmd.Context()

	var fetcher driven.StatusFetcher
	if !flagOffline {
		creds, err := twitter.LoadCredentials(flagCredentials)
		if err != nil {
			return err
		}
		fetcher = twitter.NewClient(ctx, creds)
	}

	var store driven.SeenStore
	if flagSeenDB != "" {
		s, err := sqlite.NewSeenStore(flagSeenDB)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	session := services.NewSession(flagLimit, flagDedup, store)
	resolver := services.NewResolver(fetcher, session, flagOffline)

	out := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var emitter *assemble.RecordEmitter
	if flagMode == "records" {
		emitter = assemble.NewRecordEmitter(out, "retweever/"+version)
	}

	for i, path := range args {
		if err := resolveFile(ctx, path, i+1, resolver, out, emitter); err != nil {
			return err
		}
	}
	logger.Info("fetch budget remaining: %d", session.Remaining())
	return nil
}

// resolveFile walks one archive file, resolving every tweet or profile
// record it yields. Undecodable payloads and empty seeds are logged and
// skipped; only stream corruption and context cancellation abort.
func resolveFile(
	ctx context.Context, path string, fileNum int,
	resolver driving.ConversationResolver, out io.Writer, emitter *assemble.RecordEmitter,
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	if emitter != nil {
		if err := emitter.BeginFile(path); err != nil {
			return err
		}
	}

	r := warc.NewReader(f, headerEndPolicy())
	entryNum := 0
	empties := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		entryNum++

		if t := rec.Type(); t == warc.TypeRequest || t == warc.TypeWarcinfo {
			continue
		}

		body := rec.Body()
		item, kind, err := tweet.Extract(body)
		if err != nil {
			logger.Error("%s entry %d: %v", path, entryNum, warc.NewPayloadError(body, err))
			continue
		}
		if kind == tweet.KindEmpty {
			empties++
			continue
		}
		if refersTo, ok := rec.Get(warc.HeaderRefersToTargetURI); ok &&
			strings.HasPrefix(refersTo, profileLookupPrefix) {
			item.Profile = true
		}

		conv, err := resolver.Resolve(ctx, item)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				logger.Warn("%s entry %d: no usable identity, skipping", path, entryNum)
				continue
			}
			return err
		}

		if emitter != nil {
			if err := emitter.EmitConversation(conv, rec); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "%s\n\n",
			assemble.FormatConversation(conv, fileNum, entryNum)); err != nil {
			return err
		}
	}
	if empties > 0 {
		logger.Info("%s: %d entries carried neither a status nor a profile", path, empties)
	}
	return nil
}
