// Package hash provides hashing utilities.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// SHA256 computes the SHA256 hash of data and returns it as a hex string.
func SHA256(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SHA256String computes the SHA256 hash of a string.
func SHA256String(s string) string {
	return SHA256([]byte(s))
}

// SHA256Short returns the first n characters of a SHA256 hash.
func SHA256Short(data []byte, n int) string {
	h := SHA256(data)
	if n > len(h) {
		return h
	}
	return h[:n]
}

// RunID generates an evaluation run ID from the input files, the phase, and
// the run start time. Distinct submissions of the same files get distinct IDs.
func RunID(truthPath, predictionPath, phase string, startedAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%d", truthPath, predictionPath, phase, startedAt.UnixNano())
	return SHA256Short([]byte(data), 16)
}
