package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// trackingTokenBytes sizes tokens at 256 bits of entropy, enough that a
// collision with an issued token is a defensive check rather than a real
// possibility.
const trackingTokenBytes = 32

// GenerateTrackingToken returns a fresh unguessable tracking token. The
// caller verifies global uniqueness via the unique-insert path and retries
// on conflict.
func GenerateTrackingToken() (string, error) {
	buf := make([]byte, trackingTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TrackingURL builds the link embedded in a delivered message.
func TrackingURL(baseURL, token string) string {
	return fmt.Sprintf("%s/t/%s", baseURL, token)
}
