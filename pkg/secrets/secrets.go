package secrets

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// PassphraseAlphabet is the character set for generated passphrases.
// It deliberately has no ':' since the tag is split on the first colon.
const PassphraseAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789-_.!"

// ErrInvalidLength indicates a non-positive passphrase length.
var ErrInvalidLength = errors.New("length must be at least 1")

// Secret wraps a byte slice that contains sensitive data.
// It provides a mechanism to zero out the memory when no longer needed.
type Secret struct {
	data []byte
}

// WrapSecret creates a Secret from an existing byte slice.
// WARNING: The original slice is still accessible; use this only when necessary.
func WrapSecret(data []byte) *Secret {
	return &Secret{data: data}
}

// Bytes returns the raw bytes of the secret.
func (s *Secret) Bytes() []byte {
	return s.data
}

// Destroy overwrites the secret data with zeros. It is idempotent.
func (s *Secret) Destroy() {
	if s.data != nil {
		for i := range s.data {
			s.data[i] = 0
		}
		s.data = nil
	}
}

// NewPassphrase returns a random passphrase of length characters drawn
// uniformly from PassphraseAlphabet.
func NewPassphrase(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	max := big.NewInt(int64(len(PassphraseAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate passphrase: %w", err)
		}
		out[i] = PassphraseAlphabet[n.Int64()]
	}
	return string(out), nil
}
