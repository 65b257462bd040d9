package identity

import "fmt"

// MalformedPayloadError reports a provider payload that is missing the nested
// structure the provider mandates. It is fatal for the login attempt: no
// account state is created or modified once it is raised.
type MalformedPayloadError struct {
	Provider string
	Key      string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("identity: malformed %s payload: missing %q", e.Provider, e.Key)
}
