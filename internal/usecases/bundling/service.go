// Package bundling groups the orchestrator's output into a per-account
// SeriesBundle ready for rendering.
package bundling

import (
	"github.com/vfg2006/metric-imager/internal/domain"
)

// Assemble groups results by account identity. Every selected account
// appears as a key even if all of its queries failed, so downstream callers
// can render a "no data" state instead of silently dropping accounts.
// Purely in-memory and deterministic for deterministic input.
func Assemble(selected []domain.AccountConfig, results []domain.FetchResult) domain.SeriesBundle {
	bundle := domain.SeriesBundle{
		Accounts: make(map[string]domain.AccountConfig, len(selected)),
		Results:  make(map[string][]domain.FetchResult, len(selected)),
	}

	for _, account := range selected {
		key := account.Key()
		if _, seen := bundle.Accounts[key]; seen {
			// Duplicate account entries share one bundle key; their
			// queries were still issued independently.
			continue
		}
		bundle.Keys = append(bundle.Keys, key)
		bundle.Accounts[key] = account
		bundle.Results[key] = []domain.FetchResult{}
	}

	for _, result := range results {
		key := result.Query.Account.Key()
		if _, known := bundle.Accounts[key]; !known {
			// Results never arrive for unselected accounts; guard anyway
			// so a stray result cannot invent a bundle key.
			continue
		}
		bundle.Results[key] = append(bundle.Results[key], result)
	}

	return bundle
}
