// Package crypto checksums save files.
package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ErrChecksumMismatch is returned when data does not match its checksum.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Checksum returns the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum checks data against a hex digest produced by Checksum.
// Surrounding whitespace in want is ignored.
func VerifyChecksum(data []byte, want string) error {
	want = strings.TrimSpace(want)
	expected, err := hex.DecodeString(want)
	if err != nil {
		return fmt.Errorf("decoding checksum %q: %w", want, err)
	}
	if len(expected) != blake2b.Size256 {
		return fmt.Errorf("checksum length %d: %w", len(expected), ErrChecksumMismatch)
	}

	got := blake2b.Sum256(data)
	if subtle.ConstantTimeCompare(got[:], expected) != 1 {
		return ErrChecksumMismatch
	}
	return nil
}
