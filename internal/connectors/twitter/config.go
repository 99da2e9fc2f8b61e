package twitter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/retweever-cli/internal/core/domain"
)

// Credentials holds the API authentication material.
type Credentials struct {
	// BearerToken is the app-only bearer token used for status lookup.
	BearerToken string `toml:"bearer_token"`
}

// DefaultCredentialsPath returns ~/.retweever/credentials.toml.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".retweever", "credentials.toml"), nil
}

// LoadCredentials reads the TOML credentials file. A missing file or
// empty token maps to domain.ErrMissingCredentials, which is the one
// error class that terminates a run.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		var err error
		path, err = DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no credentials file at %s", domain.ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if creds.BearerToken == "" {
		return nil, fmt.Errorf("%w: bearer_token not set in %s", domain.ErrMissingCredentials, path)
	}
	return &creds, nil
}
