package domain

import "fmt"

// Identity is the acting caller: anonymous, or an account within an organization.
// The zero value is the anonymous identity.
type Identity struct {
	accountID      int64
	organizationID int64
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

// NewIdentity validates and creates an authenticated identity.
// Account and organization must come together.
func NewIdentity(accountID, organizationID int64) (Identity, error) {
	if accountID <= 0 || organizationID <= 0 {
		return Identity{}, fmt.Errorf("%w: account %d, organization %d", ErrInvalidIdentity, accountID, organizationID)
	}
	return Identity{accountID: accountID, organizationID: organizationID}, nil
}

// IsAnonymous reports whether the caller has no account identity.
func (i Identity) IsAnonymous() bool { return i.accountID == 0 }

// AccountID returns the acting account id (0 when anonymous).
func (i Identity) AccountID() int64 { return i.accountID }

// OrganizationID returns the acting organization id (0 when anonymous).
func (i Identity) OrganizationID() int64 { return i.organizationID }
