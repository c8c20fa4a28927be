package trafficspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/metric-imager/internal/domain"
)

func writeSpecFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traffic.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSpecFile(t, `{
		"metrics": [
			{
				"name": "RetryCount",
				"stat": "Sum",
				"dimensions": {"Service": "{{NAMESPACE}}", "Region": "{{REGION}}"}
			},
			{
				"name": "ErrorCount",
				"dimensions": {"Service": "{{NAMESPACE}}"}
			}
		]
	}`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "RetryCount", specs[0].Name)
	assert.Equal(t, "Sum", specs[0].Stat)
	assert.Equal(t, "ErrorCount", specs[1].Name)
	assert.Equal(t, DefaultStat, specs[1].Stat, "stat should default when omitted")
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeSpecFile(t, `{"metrics": [`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidTrafficSpec)
}

func TestLoadNoMetrics(t *testing.T) {
	path := writeSpecFile(t, `{"metrics": []}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidTrafficSpec)
}

func TestLoadUnnamedMetric(t *testing.T) {
	path := writeSpecFile(t, `{"metrics": [{"stat": "Sum"}]}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidTrafficSpec)
}

func TestExpandDimensions(t *testing.T) {
	spec := MetricSpec{
		Name: "RetryCount",
		Dimensions: map[string]string{
			"Service":   "{{NAMESPACE}}",
			"Account":   "{{ACCOUNT_ID}}",
			"Region":    "{{REGION}}",
			"Operation": "PutItem",
		},
	}
	account := domain.AccountConfig{Namespace: "ItemDPP", AccountID: "111111111111", Region: "us-west-2"}

	expanded := spec.ExpandDimensions(account)
	assert.Equal(t, map[string]string{
		"Service":   "ItemDPP",
		"Account":   "111111111111",
		"Region":    "us-west-2",
		"Operation": "PutItem",
	}, expanded)

	// The template itself must stay untouched for the next account.
	assert.Equal(t, "{{NAMESPACE}}", spec.Dimensions["Service"])
}
