package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retweever-cli/internal/logger"
	"github.com/custodia-labs/retweever-cli/internal/warc"
)

var flagDumpList bool

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] WARC_FILE...",
	Short: "Dump the JSON payloads of archive files",
	Long: `Dump decodes archive files and prints their JSON payloads without
touching the network. A single file becomes a JSON array of payloads;
multiple files become an array of {path, tweets} objects.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVarP(&flagDumpList, "list", "l", false,
		"print one JSON object per line instead of a document")
	rootCmd.AddCommand(dumpCmd)
}

// fileDump is the per-file element of the multi-file document form.
type fileDump struct {
	Path   string            `json:"path"`
	Tweets []json.RawMessage `json:"tweets"`
}

func runDump(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if flagDumpList {
		for _, path := range args {
			if err := dumpLines(path, out); err != nil {
				return err
			}
		}
		return nil
	}

	if len(args) == 1 {
		payloads, err := readPayloads(args[0])
		if err != nil {
			return err
		}
		return writeDocument(out, payloads)
	}

	dumps := make([]fileDump, 0, len(args))
	for _, path := range args {
		payloads, err := readPayloads(path)
		if err != nil {
			return err
		}
		dumps = append(dumps, fileDump{Path: path, Tweets: payloads})
	}
	return writeDocument(out, dumps)
}

func writeDocument(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

// dumpLines streams one compact JSON object per line.
func dumpLines(path string, out io.Writer) error {
	payloads, err := readPayloads(path)
	if err != nil {
		return err
	}
	for _, p := range payloads {
		compact, err := compactJSON(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\n", compact); err != nil {
			return err
		}
	}
	return nil
}

func compactJSON(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// readPayloads decodes one archive file into its JSON payloads.
// Request and warcinfo records carry no status data and are skipped;
// so are payloads that fail to parse, with a logged prefix.
func readPayloads(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	payloads := []json.RawMessage{}
	r := warc.NewReader(f, headerEndPolicy())
	entryNum := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return payloads, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		entryNum++

		if t := rec.Type(); t == warc.TypeRequest || t == warc.TypeWarcinfo {
			continue
		}
		body := rec.Body()
		if !json.Valid(body) {
			logger.Error("%s entry %d: %v", path, entryNum,
				warc.NewPayloadError(body, fmt.Errorf("not valid JSON")))
			continue
		}
		payloads = append(payloads, json.RawMessage(append([]byte(nil), body...)))
	}
}
