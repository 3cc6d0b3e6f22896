package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefghijklmnop"), 1024)

	compressed, err := Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestCompress_RejectsEmptyInput(t *testing.T) {
	_, err := Compress(nil)
	require.ErrorIs(t, err, vaulterr.ErrEmptyInput)
}

func TestDecompress_RejectsEmptyInput(t *testing.T) {
	_, err := Decompress(nil)
	require.ErrorIs(t, err, vaulterr.ErrEmptyInput)
}

func TestDecompress_RejectsGarbageInput(t *testing.T) {
	_, err := Decompress([]byte("not zlib data at all"))
	require.ErrorIs(t, err, vaulterr.ErrCompression)
}
