package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaSigner_SignAndVerify(t *testing.T) {
	signer := NewMediaSigner("https://api.test/v1/media/", "media-secret", time.Hour)

	signed, err := signer.SignURL("avatars/alice smith.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "https://api.test/v1/media/avatars/alice%20smith.png?sig="))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	key, err := signer.Verify(u.Query().Get("sig"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/alice smith.png", key)
}

func TestMediaSigner_EmptyKey(t *testing.T) {
	signer := NewMediaSigner("https://api.test/v1/media", "media-secret", time.Hour)

	signed, err := signer.SignURL("")
	require.NoError(t, err)
	assert.Empty(t, signed)
}

func TestMediaSigner_RejectsExpiredAndForeign(t *testing.T) {
	expired := NewMediaSigner("https://api.test/v1/media", "media-secret", -time.Minute)
	signed, err := expired.SignURL("avatars/alice.png")
	require.NoError(t, err)
	u, err := url.Parse(signed)
	require.NoError(t, err)

	_, err = expired.Verify(u.Query().Get("sig"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewMediaSigner("https://api.test/v1/media", "other-secret", time.Hour)
	signed, err = other.SignURL("avatars/alice.png")
	require.NoError(t, err)
	u, err = url.Parse(signed)
	require.NoError(t, err)

	signer := NewMediaSigner("https://api.test/v1/media", "media-secret", time.Hour)
	_, err = signer.Verify(u.Query().Get("sig"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
