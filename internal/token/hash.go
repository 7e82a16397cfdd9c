package token

import (
	"crypto/sha256"
	"crypto/subtle"
)

// HashSecret returns the SHA-256 digest of the secret. Only the digest is
// ever persisted.
func HashSecret(secret []byte) []byte {
	h := sha256.Sum256(secret)
	return h[:]
}

// VerifySecret recomputes the candidate's digest and compares it against the
// stored one in constant time.
func VerifySecret(digest, candidate []byte) bool {
	return subtle.ConstantTimeCompare(digest, HashSecret(candidate)) == 1
}
