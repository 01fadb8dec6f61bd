package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
)

var fallbackCounter atomic.Uint64

// New returns an opaque unique token suitable as a job correlation id.
func New() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("job-fallback-%d", fallbackCounter.Add(1))
	}
	return hex.EncodeToString(b[:])
}
