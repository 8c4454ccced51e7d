// Package idgen produces record identifiers.
package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 version 7 UUIDs (time-sortable).
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Sequence returns a Generator yielding prefix-1, prefix-2, ...
// Deterministic, meant for tests.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// Default is the generator used when none is configured.
var Default Generator = UUIDv7()

// New produces an ID using Default.
func New() string {
	return Default()
}
