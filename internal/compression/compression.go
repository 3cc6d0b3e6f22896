// Package compression wraps the zlib deflate stage applied to each
// chunk before padding and encryption.
package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// Level is the fixed compression level used throughout the pipeline:
// fast, trading ratio for the throughput a per-chunk streaming
// pipeline needs.
const Level = zlib.BestSpeed

// Compress deflates data under zlib framing at Level.
func Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib-framed buffer produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, vaulterr.ErrCompression
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, vaulterr.ErrCompression
	}
	return out, nil
}
