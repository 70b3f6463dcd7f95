package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Keyer derives cache keys from call parameters.
//
// Contract:
// - Determinism: identical (prompt, model, provider) triples must always
//   produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a cache key for the triple.
	Key(prompt, model, provider string) string
}

// SHA256Keyer derives fixed-length keys by hashing the triple.
//
// The key is the SHA-256 hex digest (64 characters) of the
// provider/model/prompt fields. Each field is written with a length
// prefix, so the encoding is injective: distinct triples never produce
// the same hash input even when field values contain each other's
// separators, and key length is independent of prompt length.
type SHA256Keyer struct{}

// Key derives the cache key for the triple.
func (SHA256Keyer) Key(prompt, model, provider string) string {
	h := sha256.New()
	for _, field := range []string{provider, model, prompt} {
		var size [8]byte
		binary.BigEndian.PutUint64(size[:], uint64(len(field)))
		h.Write(size[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Ensure SHA256Keyer implements Keyer
var _ Keyer = SHA256Keyer{}
