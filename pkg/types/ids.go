package types

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// NewID generates a UUID v7 string for entity IDs, falling back to v4 if
// v7 generation fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

const shareCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewShareCode generates an 8-character base36 public share token.
func NewShareCode() string {
	b := make([]byte, ShareCodeLength)
	max := big.NewInt(int64(len(shareCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand should not fail; degrade to a fixed index rather
			// than panic in a request path.
			b[i] = shareCodeAlphabet[0]
			continue
		}
		b[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(b)
}
