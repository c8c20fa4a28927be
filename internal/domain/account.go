package domain

import "fmt"

// AccountConfig identifies one account targeted for metric collection.
// Identity is the (namespace, account_id, region) triple; duplicate entries
// in the accounts file produce independent queries.
type AccountConfig struct {
	Namespace string
	AccountID string
	Region    string
}

// Key returns the identity key used to group results per account.
func (a AccountConfig) Key() string {
	return fmt.Sprintf("%s/%s/%s", a.Namespace, a.AccountID, a.Region)
}

func (a AccountConfig) String() string {
	return fmt.Sprintf("AccountConfig{namespace: %q, account_id: %q, region: %q}", a.Namespace, a.AccountID, a.Region)
}
