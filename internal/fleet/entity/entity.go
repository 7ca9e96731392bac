package entity

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 32-char lowercase hex identifier
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// IsValidID reports whether id is a well-formed identifier as produced by NewID.
// Hyphenated uuids are accepted for records imported from older dumps.
func IsValidID(id string) bool {
	if len(id) != 32 && len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
