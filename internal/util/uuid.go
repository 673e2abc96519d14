package util

import (
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ShortUUID returns a random UUID as 22 URL-safe characters.
func ShortUUID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// RequestID returns a request identifier of length characters, at most 22.
func RequestID(length int) (string, error) {
	encoded := ShortUUID()
	if length <= 0 || length > len(encoded) {
		return "", errors.Newf("request id length %d outside [1, %d]", length, len(encoded))
	}
	return encoded[:length], nil
}
