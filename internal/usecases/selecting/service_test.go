package selecting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/metric-imager/internal/domain"
)

func accountsFixture() []domain.AccountConfig {
	return []domain.AccountConfig{
		{Namespace: "ItemDPP", AccountID: "111111111111", Region: "us-east-1"},
		{Namespace: "Other", AccountID: "222222222222", Region: "eu-west-1"},
		{Namespace: "ItemDPP", AccountID: "333333333333", Region: "us-west-2"},
	}
}

func TestFilterNoPatternReturnsAll(t *testing.T) {
	accounts := accountsFixture()

	assert.Equal(t, accounts, Filter(accounts, ""))
}

func TestFilterSubstringMatch(t *testing.T) {
	accounts := accountsFixture()

	filtered := Filter(accounts, "ItemDPP")
	assert.Equal(t, []domain.AccountConfig{accounts[0], accounts[2]}, filtered)
}

func TestFilterPartialSubstring(t *testing.T) {
	accounts := accountsFixture()

	filtered := Filter(accounts, "DPP")
	assert.Len(t, filtered, 2)
}

func TestFilterNoRegexSemantics(t *testing.T) {
	accounts := []domain.AccountConfig{
		{Namespace: "Item.DPP", AccountID: "1", Region: "us-east-1"},
		{Namespace: "ItemXDPP", AccountID: "2", Region: "us-east-1"},
	}

	// "." must match only a literal dot.
	filtered := Filter(accounts, "Item.DPP")
	assert.Equal(t, []domain.AccountConfig{accounts[0]}, filtered)
}

func TestFilterZeroMatches(t *testing.T) {
	filtered := Filter(accountsFixture(), "DoesNotExist")
	assert.Empty(t, filtered)
	assert.NotNil(t, filtered)
}

func TestFilterPreservesRelativeOrder(t *testing.T) {
	accounts := []domain.AccountConfig{
		{Namespace: "B-svc", AccountID: "1", Region: "r"},
		{Namespace: "A-svc", AccountID: "2", Region: "r"},
		{Namespace: "B-svc", AccountID: "3", Region: "r"},
	}

	filtered := Filter(accounts, "svc")
	assert.Equal(t, accounts, filtered, "filter must be a stable subsequence")
}
