// Package repositories contains the store interfaces for every entity and
// their MongoDB and Cassandra implementations. Services depend only on the
// interfaces so tests can substitute in-memory fakes.
package repositories

import "errors"

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")
