package header

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/fileutil"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

func testMetadata() fileutil.Metadata {
	var m fileutil.Metadata
	m.Name = "secret.txt"
	m.Size = 1234
	for i := range m.Hash {
		m.Hash[i] = byte(i)
	}
	return m
}

func TestHeader_SerializeDeserializeRoundTrip(t *testing.T) {
	salt := bytes.Repeat([]byte{0x42}, config.ArgonSaltLen)
	key := []byte("a sufficiently long derived key")

	h := New(4096, testMetadata())
	wire, err := h.Serialize(salt, key)
	require.NoError(t, err)

	parsed, err := Deserialize(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Equal(t, h.OriginalSize(), parsed.OriginalSize())
	require.Equal(t, h.Metadata(), parsed.Metadata())

	gotSalt, err := parsed.Salt()
	require.NoError(t, err)
	require.Equal(t, salt, gotSalt)

	require.NoError(t, parsed.Verify(key))
}

func TestHeader_VerifyFailsWithWrongKey(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, config.ArgonSaltLen)
	key := []byte("correct key material goes here!")
	wrong := []byte("an entirely different key value")

	h := New(10, testMetadata())
	wire, err := h.Serialize(salt, key)
	require.NoError(t, err)

	parsed, err := Deserialize(bytes.NewReader(wire))
	require.NoError(t, err)
	require.ErrorIs(t, parsed.Verify(wrong), vaulterr.ErrHeaderAuth)
}

func TestHeader_DeserializeRejectsTruncatedInput(t *testing.T) {
	salt := bytes.Repeat([]byte{0x02}, config.ArgonSaltLen)
	key := []byte("correct key material goes here!")

	h := New(10, testMetadata())
	wire, err := h.Serialize(salt, key)
	require.NoError(t, err)

	_, err = Deserialize(bytes.NewReader(wire[:len(wire)-100]))
	require.Error(t, err)
}

func TestHeader_SerializeRejectsZeroSize(t *testing.T) {
	salt := bytes.Repeat([]byte{0x03}, config.ArgonSaltLen)
	key := []byte("correct key material goes here!")

	h := New(0, testMetadata())
	_, err := h.Serialize(salt, key)
	require.Error(t, err)
}

func TestHeader_SerializeRejectsWrongSaltLength(t *testing.T) {
	h := New(10, testMetadata())
	_, err := h.Serialize([]byte("too-short"), []byte("some key"))
	require.ErrorIs(t, err, vaulterr.ErrInvalidSalt)
}

func TestHeader_DeserializeRejectsCorruptedMagic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x04}, config.ArgonSaltLen)
	key := []byte("correct key material goes here!")

	h := New(10, testMetadata())
	wire, err := h.Serialize(salt, key)
	require.NoError(t, err)

	// Flip enough bits across the whole magic section's erasure-coded
	// shards that Reed-Solomon cannot silently recover the original
	// magic value, to confirm corruption surfaces as an error rather
	// than being masked.
	corrupt := append([]byte{}, wire...)
	for i := 20; i < len(corrupt); i += 7 {
		corrupt[i] ^= 0xFF
	}

	_, err = Deserialize(bytes.NewReader(corrupt))
	require.Error(t, err)
}
