// Package normalize provides canonical forms for values that act as
// cross-store identity keys.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Email returns the canonical form of an email address: Unicode NFC,
// trimmed, and lowercased. Both stores index persons by this form, so a
// person created in one store is findable from the other regardless of
// how the address was typed.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(email)))
}

// Name returns a display name with surrounding whitespace removed and
// composed Unicode form, without case folding.
func Name(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}
