package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// NewID generates a UUIDv7 string for entities keyed by opaque identifiers
// (repositories, tasks, audit entries, API keys).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParseSerialID parses a numeric path identifier (synclists, groups).
func ParseSerialID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound("no resource with id %q", s)
	}
	return id, nil
}
