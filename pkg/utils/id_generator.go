// Package utils provides shared helpers: identifier generation and password
// hashing.
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string for use as an entity identifier.
// Random UUIDs need no coordination, so allocation is independent of how many
// entities already exist.
func GenerateID() string {
	return uuid.New().String()
}
