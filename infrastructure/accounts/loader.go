// Package accounts loads the TOML accounts file: an array of [[account]]
// tables carrying namespace, account_id and region for each account.
package accounts

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/metric-imager/internal/domain"
)

// ErrInvalidAccountsFile indicates malformed TOML or a missing required
// field. Fatal: the run aborts before any fetching starts.
var ErrInvalidAccountsFile = errors.New("invalid accounts file")

type accountsFile struct {
	Account []accountEntry `toml:"account"`
}

type accountEntry struct {
	Namespace string `toml:"namespace"`
	AccountID string `toml:"account_id"`
	Region    string `toml:"region"`
}

// Load reads and validates the accounts file, preserving file order.
// Duplicate identities are kept; they become independent queries downstream.
func Load(path string) ([]domain.AccountConfig, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "accounts: reading %s", path)
	}

	var parsed accountsFile
	if err := toml.Unmarshal(contents, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountsFile, err)
	}

	configs := make([]domain.AccountConfig, 0, len(parsed.Account))
	for i, entry := range parsed.Account {
		if entry.Namespace == "" || entry.AccountID == "" || entry.Region == "" {
			return nil, fmt.Errorf("%w: account entry %d is missing a required field", ErrInvalidAccountsFile, i)
		}
		configs = append(configs, domain.AccountConfig{
			Namespace: entry.Namespace,
			AccountID: entry.AccountID,
			Region:    entry.Region,
		})
	}

	return configs, nil
}
