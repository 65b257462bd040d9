// Package identity normalizes the heterogeneous profile payloads returned by
// external identity providers into a single canonical shape, so everything
// downstream of login is provider-agnostic.
package identity

// Identity is the canonical record produced for one login attempt. Provider
// and ExternalID together identify the remote subject; Email, when present,
// is the key the account layer links identities with.
type Identity struct {
	Provider    string
	ExternalID  string
	DisplayName string
	Email       string
	AvatarURL   string

	// RawAttributes is the original provider payload, retained for consumers
	// that need provider-native fields.
	RawAttributes map[string]any

	// SubjectAttributeKey names the key in RawAttributes the provider treats
	// as the stable subject identifier. It is carried through for generic
	// OAuth consumers and does not drive field extraction.
	SubjectAttributeKey string
}

// ProfileAttributes returns the attribute map downstream consumers should
// read. Providers that wrap profile data under an inner key are unwrapped
// here so every consumer sees one flat shape.
func (id Identity) ProfileAttributes() map[string]any {
	if key, ok := wrappedPayloadKeys[id.Provider]; ok {
		if inner, ok := id.RawAttributes[key].(map[string]any); ok {
			return inner
		}
	}
	return id.RawAttributes
}
