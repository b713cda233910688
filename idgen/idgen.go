// Package idgen mints the two identifiers that make up a profile's primary key.
package idgen

import "github.com/google/uuid"

// Source produces new primary key identifiers.
type Source interface {
	NewUserID() uuid.UUID
	NewOrderID() uuid.UUID
}

// UUIDSource is the production Source backed by crypto/rand.
type UUIDSource struct{}

var _ Source = UUIDSource{}

// NewUserID returns a random (version 4) identifier. It has no ordering.
func (UUIDSource) NewUserID() uuid.UUID {
	return NewUserID()
}

// NewOrderID returns a time-ordered (version 7) identifier.
func (UUIDSource) NewOrderID() uuid.UUID {
	return NewOrderID()
}

// NewUserID panics if the random source fails, since the partition key
// cannot be derived any other way.
func NewUserID() uuid.UUID {
	return uuid.Must(uuid.NewRandom())
}

// NewOrderID embeds the current Unix millisecond timestamp followed by a
// monotonic sequence and random bits. Identifiers minted later in the same
// process compare greater, both byte-wise and as canonical strings.
func NewOrderID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
