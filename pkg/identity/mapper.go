package identity

import (
	"encoding/json"
	"strconv"
)

// Supported provider keys. Any other key falls through to the generic mapper.
const (
	ProviderGoogle = "google"
	ProviderGithub = "github"
	ProviderKakao  = "kakao"
	ProviderNaver  = "naver"
)

// wrappedPayloadKeys names, per provider, the inner key the actual profile
// data lives under. Providers absent from this map use a flat payload.
var wrappedPayloadKeys = map[string]string{
	ProviderKakao: "kakao_account",
	ProviderNaver: "response",
}

// Map converts a raw provider payload into an Identity. Dispatch is by exact
// provider key; unknown providers get the generic flat-payload mapper. Only a
// missing mandated sub-map fails the mapping — absent optional fields map to
// empty strings.
func Map(provider, subjectAttributeKey string, attrs map[string]any) (Identity, error) {
	switch provider {
	case ProviderGoogle:
		return mapGoogle(subjectAttributeKey, attrs), nil
	case ProviderGithub:
		return mapGithub(subjectAttributeKey, attrs), nil
	case ProviderKakao:
		return mapKakao(subjectAttributeKey, attrs)
	case ProviderNaver:
		return mapNaver(subjectAttributeKey, attrs)
	default:
		return mapGeneric(provider, subjectAttributeKey, attrs), nil
	}
}

// mapGoogle reads the flat userinfo payload. The subject id is resolved from
// the configured subject attribute key, falling back to the well-known "sub"
// and "id" keys depending on which Google endpoint produced the payload.
func mapGoogle(subjectKey string, attrs map[string]any) Identity {
	return Identity{
		Provider:            ProviderGoogle,
		ExternalID:          subjectID(attrs, subjectKey, "sub", "id"),
		DisplayName:         stringAttr(attrs, "name"),
		Email:               stringAttr(attrs, "email"),
		AvatarURL:           stringAttr(attrs, "picture"),
		RawAttributes:       attrs,
		SubjectAttributeKey: subjectKey,
	}
}

// mapGithub reads the flat /user payload. GitHub frequently omits email here;
// the resolver recovers it through the secondary email endpoint.
func mapGithub(subjectKey string, attrs map[string]any) Identity {
	name := stringAttr(attrs, "name")
	if name == "" {
		name = stringAttr(attrs, "login")
	}
	return Identity{
		Provider:            ProviderGithub,
		ExternalID:          subjectID(attrs, subjectKey, "id"),
		DisplayName:         name,
		Email:               stringAttr(attrs, "email"),
		AvatarURL:           stringAttr(attrs, "avatar_url"),
		RawAttributes:       attrs,
		SubjectAttributeKey: subjectKey,
	}
}

// mapKakao unwraps the kakao_account sub-map; its absence is fatal. The
// profile sub-map inside it is optional and tolerated when missing.
func mapKakao(subjectKey string, attrs map[string]any) (Identity, error) {
	account, err := subMap(ProviderKakao, attrs, "kakao_account")
	if err != nil {
		return Identity{}, err
	}

	var nickname, avatar string
	if profile, ok := account["profile"].(map[string]any); ok {
		nickname = stringAttr(profile, "nickname")
		avatar = stringAttr(profile, "profile_image_url")
	}

	return Identity{
		Provider:            ProviderKakao,
		ExternalID:          subjectID(attrs, subjectKey, "id"),
		DisplayName:         nickname,
		Email:               stringAttr(account, "email"),
		AvatarURL:           avatar,
		RawAttributes:       attrs,
		SubjectAttributeKey: subjectKey,
	}, nil
}

// mapNaver unwraps the response sub-map; its absence is fatal.
func mapNaver(subjectKey string, attrs map[string]any) (Identity, error) {
	response, err := subMap(ProviderNaver, attrs, "response")
	if err != nil {
		return Identity{}, err
	}

	name := stringAttr(response, "name")
	if name == "" {
		name = stringAttr(response, "nickname")
	}

	return Identity{
		Provider:            ProviderNaver,
		ExternalID:          subjectID(response, "id"),
		DisplayName:         name,
		Email:               stringAttr(response, "email"),
		AvatarURL:           stringAttr(response, "profile_image"),
		RawAttributes:       attrs,
		SubjectAttributeKey: subjectKey,
	}, nil
}

// mapGeneric assumes a flat payload with conventional key names.
func mapGeneric(provider, subjectKey string, attrs map[string]any) Identity {
	name := stringAttr(attrs, "login")
	if name == "" {
		name = stringAttr(attrs, "name")
	}
	return Identity{
		Provider:            provider,
		ExternalID:          subjectID(attrs, subjectKey, "id"),
		DisplayName:         name,
		Email:               stringAttr(attrs, "email"),
		AvatarURL:           stringAttr(attrs, "avatar_url"),
		RawAttributes:       attrs,
		SubjectAttributeKey: subjectKey,
	}
}

// subjectID returns the subject identifier as a string, trying the given keys
// in order. Numeric identifiers are coerced to their decimal string form so
// they are never compared as numbers.
func subjectID(attrs map[string]any, keys ...string) string {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if v, ok := attrs[key]; ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringAttr reads an optional string field, substituting empty for anything
// missing or non-string.
func stringAttr(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

// subMap reads a mandated nested payload; absence is a malformed payload.
func subMap(provider string, attrs map[string]any, key string) (map[string]any, error) {
	inner, ok := attrs[key].(map[string]any)
	if !ok {
		return nil, &MalformedPayloadError{Provider: provider, Key: key}
	}
	return inner, nil
}

func coerceString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	default:
		return ""
	}
}
