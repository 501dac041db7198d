// Package id defines the identifier type shared by all entities.
// Identifiers are assigned by the database (BIGSERIAL).
package id

import (
	"fmt"
	"strconv"
)

// ID is the primary key type of every entity.
type ID = int64

// Parse converts a path or query parameter to ID.
// Only positive values are accepted.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return v, nil
}

// IsNil reports whether the id has not been assigned yet.
func IsNil(v ID) bool {
	return v == 0
}
