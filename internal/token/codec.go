// Package token implements the opaque public token format: the random
// secret, its one-way hash, and the codec that joins a token identifier and
// secret into the single string sent to the user. Everything here is pure
// and safe for concurrent use.
package token

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformed is returned by Decode for any input that is not a well-formed
// public token value.
var ErrMalformed = errors.New("malformed token value")

const separator = "."

var encoding = base64.RawURLEncoding

// Encode renders an (identifier, secret) pair as the opaque public value
// "<base64url(id)>.<base64url(secret)>". No other metadata is embedded;
// expiry and ownership are resolved server-side only.
func Encode(id uuid.UUID, secret []byte) string {
	return encoding.EncodeToString(id[:]) + separator + encoding.EncodeToString(secret)
}

// Decode splits a public value back into identifier and secret. The split is
// on the first separator, so the secret segment may itself contain further
// "." characters. Any malformed input yields ErrMalformed, never a panic.
func Decode(value string) (uuid.UUID, []byte, error) {
	if value == "" {
		return uuid.Nil, nil, ErrMalformed
	}

	idPart, secretPart, found := strings.Cut(value, separator)
	if !found || idPart == "" || secretPart == "" {
		return uuid.Nil, nil, ErrMalformed
	}

	rawID, err := encoding.DecodeString(idPart)
	if err != nil || len(rawID) != 16 {
		return uuid.Nil, nil, ErrMalformed
	}

	secret, err := encoding.DecodeString(secretPart)
	if err != nil {
		return uuid.Nil, nil, ErrMalformed
	}

	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return uuid.Nil, nil, ErrMalformed
	}

	return id, secret, nil
}
