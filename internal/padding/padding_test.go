package padding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

func TestPadUnpad_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("a"),
		bytes.Repeat([]byte("x"), BlockSize-1),
		bytes.Repeat([]byte("x"), BlockSize),
		bytes.Repeat([]byte("x"), BlockSize+1),
		bytes.Repeat([]byte("x"), BlockSize*3),
	}

	for _, data := range cases {
		padded, err := Pad(data)
		require.NoError(t, err)
		require.Greater(t, len(padded), len(data))
		require.Zero(t, len(padded)%BlockSize)

		unpadded, err := Unpad(padded)
		require.NoError(t, err)
		require.Equal(t, data, unpadded)
	}
}

func TestPad_RejectsEmptyInput(t *testing.T) {
	_, err := Pad(nil)
	require.ErrorIs(t, err, vaulterr.ErrEmptyInput)
}

func TestUnpad_RejectsNonBlockAlignedLength(t *testing.T) {
	_, err := Unpad(make([]byte, BlockSize+1))
	require.ErrorIs(t, err, vaulterr.ErrPadding)
}

func TestUnpad_RejectsEmptyInput(t *testing.T) {
	_, err := Unpad(nil)
	require.ErrorIs(t, err, vaulterr.ErrPadding)
}

func TestUnpad_RejectsZeroPadLength(t *testing.T) {
	block := make([]byte, BlockSize)
	_, err := Unpad(block)
	require.ErrorIs(t, err, vaulterr.ErrPadding)
}

func TestUnpad_RejectsInconsistentPaddingBytes(t *testing.T) {
	data := []byte("hello")
	padded, err := Pad(data)
	require.NoError(t, err)

	padded[len(padded)-2] ^= 0xFF

	_, err = Unpad(padded)
	require.ErrorIs(t, err, vaulterr.ErrPadding)
}
