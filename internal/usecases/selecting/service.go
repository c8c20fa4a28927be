// Package selecting filters the loaded account list by an optional
// namespace pattern.
package selecting

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/metric-imager/internal/domain"
)

// Filter returns the accounts whose namespace contains pattern, preserving
// original order. An empty pattern returns the input unchanged. Matching is
// plain substring containment, never regex. Zero matches is a valid result,
// not an error.
func Filter(accounts []domain.AccountConfig, pattern string) []domain.AccountConfig {
	if pattern == "" {
		return accounts
	}

	filtered := make([]domain.AccountConfig, 0, len(accounts))
	for _, account := range accounts {
		if strings.Contains(account.Namespace, pattern) {
			filtered = append(filtered, account)
		}
	}

	logrus.WithFields(logrus.Fields{
		"pattern":  pattern,
		"total":    len(accounts),
		"selected": len(filtered),
	}).Debug("Filtered accounts by namespace pattern")

	return filtered
}
