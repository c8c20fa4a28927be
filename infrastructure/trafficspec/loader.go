// Package trafficspec loads the JSON traffic definitions describing which
// metrics and dimensions to query per account. Dimension values may carry
// {{NAMESPACE}}, {{ACCOUNT_ID}} and {{REGION}} placeholders that are
// expanded per account before querying.
package trafficspec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/metric-imager/internal/domain"
)

// ErrInvalidTrafficSpec indicates a malformed traffic spec file. Fatal: the
// run aborts before any fetching starts.
var ErrInvalidTrafficSpec = errors.New("invalid traffic spec")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	placeholderNamespace = "{{NAMESPACE}}"
	placeholderAccountID = "{{ACCOUNT_ID}}"
	placeholderRegion    = "{{REGION}}"
)

// DefaultStat is assumed when a metric entry does not name a statistic.
const DefaultStat = "Sum"

// MetricSpec is one metric to query per selected account.
type MetricSpec struct {
	Name       string            `json:"name"`
	Stat       string            `json:"stat"`
	Dimensions map[string]string `json:"dimensions"`
}

type specFile struct {
	Metrics []MetricSpec `json:"metrics"`
}

// Load reads and validates the traffic spec file.
func Load(path string) ([]MetricSpec, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "trafficspec: reading %s", path)
	}

	var parsed specFile
	if err := json.Unmarshal(contents, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrafficSpec, err)
	}

	if len(parsed.Metrics) == 0 {
		return nil, fmt.Errorf("%w: no metrics defined", ErrInvalidTrafficSpec)
	}

	for i := range parsed.Metrics {
		if parsed.Metrics[i].Name == "" {
			return nil, fmt.Errorf("%w: metric entry %d has no name", ErrInvalidTrafficSpec, i)
		}
		if parsed.Metrics[i].Stat == "" {
			parsed.Metrics[i].Stat = DefaultStat
		}
	}

	return parsed.Metrics, nil
}

// ExpandDimensions resolves the dimension template for one account.
func (m MetricSpec) ExpandDimensions(account domain.AccountConfig) map[string]string {
	expanded := make(map[string]string, len(m.Dimensions))
	replacer := strings.NewReplacer(
		placeholderNamespace, account.Namespace,
		placeholderAccountID, account.AccountID,
		placeholderRegion, account.Region,
	)
	for key, value := range m.Dimensions {
		expanded[key] = replacer.Replace(value)
	}
	return expanded
}
