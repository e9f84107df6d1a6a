package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// hexAlphabet matches the character set of directory record identifiers.
const hexAlphabet = "0123456789abcdef"

// objectIDLength is the length of a directory record identifier.
const objectIDLength = 24

// NewObjectID creates a new directory record identifier: 24 lowercase hex
// characters, the key shape of the document store.
//
// Returns an error if the system has insufficient entropy for secure random
// generation.
func NewObjectID() (string, error) {
	oid, err := gonanoid.Generate(hexAlphabet, objectIDLength)
	if err != nil {
		return "", fmt.Errorf("generate object id: %w", err)
	}
	return oid, nil
}

// MustObjectID is like NewObjectID but panics if generation fails.
// Use only where failure should crash the program (e.g. seeding).
func MustObjectID() string {
	oid, err := NewObjectID()
	if err != nil {
		panic(fmt.Sprintf("failed to generate object id: %v", err))
	}
	return oid
}

// IsObjectID reports whether s has the shape of a directory record
// identifier: exactly 24 hex characters.
func IsObjectID(s string) bool {
	if len(s) != objectIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "token-V1StGXR8_Z5jdHi6B-myT")
//
// Used for identifiers that never round-trip through either store's key
// space, such as token IDs.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}
