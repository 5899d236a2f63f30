package domain

import "time"

// APIKey binds a hashed secret to a principal. The raw key is never stored.
type APIKey struct {
	ID          string
	PrincipalID int64
	Name        string
	KeyHash     string
	CreatedAt   time.Time
}
