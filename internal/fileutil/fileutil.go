// Package fileutil provides the content-hashing and metadata helpers
// used by the orchestrator and the chunk reader/writer: a streaming
// BLAKE3 digest truncated to config.HashSize bytes, and the Metadata
// record carried inside the container header (outside the header MAC;
// its hash is checked against the decrypted output).
package fileutil

import (
	"fmt"
	"io"

	"lukechampine.com/blake3"

	"github.com/hadescrypt/vaultstream/internal/config"
)

// Metadata describes the plaintext file that was encrypted: its
// logical name, size, and content hash. It is serialised into the
// header's Metadata section and verified against the decrypted output.
type Metadata struct {
	Name string
	Size uint64
	Hash [config.HashSize]byte
}

// Hasher wraps a BLAKE3 hash state truncated to config.HashSize bytes,
// fed incrementally as chunks stream through the reader or writer so
// the whole file never needs to sit in memory for hashing alone.
type Hasher struct {
	h *blake3.Hasher
}

// NewHasher constructs an empty streaming hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New(config.HashSize, nil)}
}

// Write feeds p into the running digest. It never returns an error,
// satisfying io.Writer so a Hasher can sit behind an io.TeeReader or
// io.MultiWriter in the streaming pipeline.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum returns the truncated digest computed so far.
func (h *Hasher) Sum() [config.HashSize]byte {
	var out [config.HashSize]byte
	copy(out[:], h.h.Sum(nil))
	return out
}

// HashReader consumes r to EOF and returns its truncated BLAKE3 digest,
// for callers that want a one-shot hash rather than a streaming one.
func HashReader(r io.Reader) ([config.HashSize]byte, error) {
	h := NewHasher()
	if _, err := io.Copy(h, r); err != nil {
		var zero [config.HashSize]byte
		return zero, fmt.Errorf("fileutil: hash read: %w", err)
	}
	return h.Sum(), nil
}

// HumanBytes renders n using binary (1024-based) unit prefixes, e.g.
// "4.0 MiB".
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
