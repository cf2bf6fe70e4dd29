// Package keygen generates signing secrets.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultSize gives a 256-bit HS256 key.
const DefaultSize = 32

const minSize = 32

// Secret returns size random bytes, base64 encoded. The result always passes
// the JWT_SECRET length check.
func Secret(size int) (string, error) {
	if size < minSize {
		return "", fmt.Errorf("secret size must be at least %d bytes", minSize)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}
