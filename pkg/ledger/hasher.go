package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// FingerprintLength is the number of hex characters shown to the user.
	FingerprintLength = 8

	// FingerprintPlaceholder is displayed when no digest could be computed.
	FingerprintPlaceholder = "--------"
)

// Hasher produces a digest of a canonical snapshot string.
type Hasher interface {
	Sum(canonical string) ([]byte, error)
}

type SHA256Hasher struct{}

func (SHA256Hasher) Sum(canonical string) ([]byte, error) {
	sum := sha256.Sum256([]byte(canonical))
	return sum[:], nil
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(canonical string) ([]byte, error)

func (f HasherFunc) Sum(canonical string) ([]byte, error) {
	return f(canonical)
}

// Fingerprint returns the first FingerprintLength hex characters of the digest, uppercased.
func Fingerprint(h Hasher, canonical string) (string, error) {
	sum, err := h.Sum(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDigestUnavailable, err)
	}
	digest := hex.EncodeToString(sum)
	if len(digest) < FingerprintLength {
		return "", fmt.Errorf("%w: digest too short (%d hex chars)", ErrDigestUnavailable, len(digest))
	}
	return strings.ToUpper(digest[:FingerprintLength]), nil
}
