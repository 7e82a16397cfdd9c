package token

import (
	"crypto/rand"
	"fmt"

	"github.com/osokin/verity/internal/model"
)

// GenerateSecret returns n cryptographically secure random bytes. A
// non-positive n falls back to model.DefaultSecretLength.
func GenerateSecret(n int) ([]byte, error) {
	if n <= 0 {
		n = model.DefaultSecretLength
	}

	secret := make([]byte, n)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	return secret, nil
}

// Zero overwrites a secret in place. Callers discard transient secrets with
// it once the public value has been rendered or verified.
func Zero(secret []byte) {
	for i := range secret {
		secret[i] = 0
	}
}
