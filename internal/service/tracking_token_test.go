package service_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secureguard/phishsim-service/internal/service"
)

func TestGenerateTrackingToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := service.GenerateTrackingToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err, "token must be URL-safe base64")
		assert.Len(t, raw, 32)

		_, dup := seen[token]
		require.False(t, dup, "token %q generated twice", token)
		seen[token] = struct{}{}
	}
}

func TestTrackingURL(t *testing.T) {
	url := service.TrackingURL("https://phish.corp.example", "abc123")
	assert.Equal(t, "https://phish.corp.example/t/abc123", url)
}
