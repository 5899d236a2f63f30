package domain

import "time"

// Repository is a content repository a synclist mirrors into or from. Its ID
// is the opaque resource identifier exposed on the wire.
type Repository struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Namespace is a collection namespace that synclists may reference.
type Namespace struct {
	Name      string
	CreatedAt time.Time
}
