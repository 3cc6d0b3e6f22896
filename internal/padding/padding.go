// Package padding implements PKCS#7 block padding over a fixed
// 128-byte block size, as used between compression and the inner AEAD
// layer.
package padding

import (
	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// BlockSize is the fixed PKCS#7 block size for the format.
const BlockSize = config.BlockSize

// Pad appends PKCS#7 padding to data so its length becomes a multiple
// of BlockSize. Unlike some PKCS#7 variants, a block-aligned input
// still receives a full extra block of padding, so Pad's output is
// always strictly longer than its input.
func Pad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}

	padLen := BlockSize - (len(data) % BlockSize)
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out, nil
}

// Unpad validates and strips PKCS#7 padding from data, which must be a
// non-zero multiple of BlockSize.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, vaulterr.ErrPadding
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > BlockSize || padLen > len(data) {
		return nil, vaulterr.ErrPadding
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, vaulterr.ErrPadding
		}
	}
	return data[:len(data)-padLen], nil
}
