package authn

import "github.com/taskdo/taskdo/pkg/identity"

// RoleUser is the single role every authenticated account carries.
const RoleUser = "user"

// Principal is the read contract the rest of the application sees after
// login, regardless of which path produced it. Password logins carry the
// secret hash and no attributes; federated logins carry the provider profile
// and no secret.
type Principal struct {
	AccountID         int64          `json:"account_id"`
	AccountIdentifier string         `json:"account_identifier"`
	Roles             []string       `json:"roles"`
	Secret            string         `json:"-"`
	Attributes        map[string]any `json:"attributes,omitempty"`
}

// LocalPrincipal builds the principal for a password login.
func LocalPrincipal(account *Account) Principal {
	return Principal{
		AccountID:         account.ID,
		AccountIdentifier: account.AccountIdentifier,
		Roles:             []string{RoleUser},
		Secret:            account.SecretHash,
	}
}

// FederatedPrincipal builds the principal for a federated login. The
// attributes are the provider profile with any provider-specific wrapping
// already removed.
func FederatedPrincipal(account *Account, id identity.Identity) Principal {
	return Principal{
		AccountID:         account.ID,
		AccountIdentifier: account.AccountIdentifier,
		Roles:             []string{RoleUser},
		Attributes:        id.ProfileAttributes(),
	}
}

// IsFederated reports whether the principal came from a federated login.
func (p Principal) IsFederated() bool {
	return p.Attributes != nil
}

// HasRole reports whether the principal carries the role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether the principal refers to a stored account.
func (p Principal) IsAuthenticated() bool {
	return p.AccountID != 0
}
