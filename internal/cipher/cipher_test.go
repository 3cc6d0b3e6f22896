package cipher

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

func randomKey(t *testing.T) []byte {
	k := make([]byte, config.KeySize)
	_, err := rand.Read(k)
	require.NoError(t, err)
	return k
}

func TestAESGCM_RoundTrip(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	sealed, err := aead.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, sealed)

	opened, err := aead.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestAESGCM_TamperedCiphertextFailsAuth(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	sealed, err := aead.Seal([]byte("hello, world"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xFF

	_, err = aead.Open(sealed)
	require.ErrorIs(t, err, vaulterr.ErrAeadAuth)
}

func TestAESGCM_RejectsEmptyPlaintext(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	_, err = aead.Seal(nil)
	require.ErrorIs(t, err, vaulterr.ErrEmptyInput)
}

func TestAESGCM_RejectsWrongKeyLength(t *testing.T) {
	_, err := NewAESGCM([]byte("too-short"))
	require.Error(t, err)
}

func TestXChaCha20Poly1305_RoundTrip(t *testing.T) {
	aead, err := NewXChaCha20Poly1305(randomKey(t))
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	sealed, err := aead.Seal(plaintext)
	require.NoError(t, err)

	opened, err := aead.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestXChaCha20Poly1305_TamperedCiphertextFailsAuth(t *testing.T) {
	aead, err := NewXChaCha20Poly1305(randomKey(t))
	require.NoError(t, err)

	sealed, err := aead.Seal([]byte("hello, world"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xFF

	_, err = aead.Open(sealed)
	require.ErrorIs(t, err, vaulterr.ErrAeadAuth)
}

func TestTwoLayers_DifferentKeysProduceIndependentCiphertexts(t *testing.T) {
	innerKey := randomKey(t)
	outerKey := randomKey(t)

	inner, err := NewAESGCM(innerKey)
	require.NoError(t, err)
	outer, err := NewXChaCha20Poly1305(outerKey)
	require.NoError(t, err)

	plaintext := []byte("layered encryption")
	innerSealed, err := inner.Seal(plaintext)
	require.NoError(t, err)

	outerSealed, err := outer.Seal(innerSealed)
	require.NoError(t, err)

	opened, err := outer.Open(outerSealed)
	require.NoError(t, err)
	require.Equal(t, innerSealed, opened)

	plain, err := inner.Open(opened)
	require.NoError(t, err)
	require.Equal(t, plaintext, plain)
}
