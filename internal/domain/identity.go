package domain

import (
	"strconv"
	"strings"
)

// IdentifierKind classifies a raw person identifier by its shape.
type IdentifierKind string

const (
	// IdentifierDirectory is a 24-character hex directory ID.
	IdentifierDirectory IdentifierKind = "directory"
	// IdentifierRegistry is a base-10 integer registry ID.
	IdentifierRegistry IdentifierKind = "registry"
	// IdentifierEmail is an email address, resolvable against both stores.
	IdentifierEmail IdentifierKind = "email"
	// IdentifierInvalid matches none of the recognized shapes.
	IdentifierInvalid IdentifierKind = "invalid"
)

// ClassifyIdentifier determines which store(s) a raw identifier can be
// resolved against. Shape checks run in order: a 24-hex string is always a
// directory ID, even when it happens to be all digits.
func ClassifyIdentifier(raw string) IdentifierKind {
	if isHex24(raw) {
		return IdentifierDirectory
	}
	if isBase10(raw) {
		return IdentifierRegistry
	}
	if strings.Contains(raw, "@") {
		return IdentifierEmail
	}
	return IdentifierInvalid
}

func isHex24(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func isBase10(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	// Must fit in an int64 to be a usable registry key.
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
