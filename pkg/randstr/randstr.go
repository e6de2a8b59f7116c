package randstr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// HexToken returns the hex encoding of n cryptographically random bytes.
func HexToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}
