// Package sanitizer normalizes untrusted input before it reaches storage.
package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address and collapses
// consecutive dots in the local part. Values that are not shaped like an
// email pass through unchanged so the caller can still use them as keys.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	local = consecutiveDots.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}
