// Package id generates the identifiers used for users, trades and sessions.
package id

import (
	cryptorand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(cryptorand.Reader, 0)
)

// New returns a ULID string. IDs sort lexicographically by creation time,
// and IDs created within the same millisecond stay increasing.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}

// IsValid checks if s is a well-formed ULID.
func IsValid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
