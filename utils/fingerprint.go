package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprinter derives stable, non-reversible identifiers for client addresses
// so scan logs can correlate devices without storing raw IPs.
type Fingerprinter struct {
	key []byte
}

func NewFingerprinter(secret string) *Fingerprinter {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Fingerprinter{key: key}
}

// Sum returns the hex encoded keyed BLAKE2b-256 digest of value, or "" for an empty value.
func (f *Fingerprinter) Sum(value string) string {
	if value == "" {
		return ""
	}
	h, err := blake2b.New256(f.key)
	if err != nil {
		// only reachable with a key above 64 bytes, which NewFingerprinter rules out
		panic(err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
