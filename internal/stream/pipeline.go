package stream

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/hadescrypt/vaultstream/internal/cipher"
	"github.com/hadescrypt/vaultstream/internal/compression"
	"github.com/hadescrypt/vaultstream/internal/encoding"
	"github.com/hadescrypt/vaultstream/internal/padding"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// Pipeline applies the full per-chunk transform — compression, PKCS#7
// padding, the two AEAD layers, and Reed–Solomon encoding — in the
// order Encrypt needs and the exact reverse Decrypt needs.
type Pipeline struct {
	inner      cipher.AEAD
	outer      cipher.AEAD
	codec      *encoding.Codec
	processing Processing
}

// NewPipeline builds a Pipeline from the two per-layer keys produced
// by kdf.SplitMasterKey.
func NewPipeline(innerKey, outerKey []byte, processing Processing) (*Pipeline, error) {
	inner, err := cipher.NewAESGCM(innerKey)
	if err != nil {
		return nil, fmt.Errorf("stream: init inner cipher: %w", err)
	}
	outer, err := cipher.NewXChaCha20Poly1305(outerKey)
	if err != nil {
		return nil, fmt.Errorf("stream: init outer cipher: %w", err)
	}
	codec, err := encoding.New()
	if err != nil {
		return nil, fmt.Errorf("stream: init reed-solomon codec: %w", err)
	}
	return &Pipeline{inner: inner, outer: outer, codec: codec, processing: processing}, nil
}

// Process runs task through the configured direction's pipeline,
// checking ctx before doing any work so a cancelled run can abandon a
// deep backlog immediately instead of draining it first.
func (p *Pipeline) Process(ctx context.Context, task Task) TaskResult {
	select {
	case <-ctx.Done():
		return Failed(task.Index, ctx.Err())
	default:
	}

	var out []byte
	var err error
	switch p.processing {
	case Encryption:
		out, err = p.encrypt(task.Data)
	case Decryption:
		out, err = p.decrypt(task.Data)
	default:
		err = fmt.Errorf("stream: unknown processing mode %d", p.processing)
	}
	if err != nil {
		return Failed(task.Index, err)
	}
	return OK(task.Index, out, len(out))
}

func (p *Pipeline) encrypt(data []byte) ([]byte, error) {
	compressed, err := compression.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	padded, err := padding.Pad(compressed)
	if err != nil {
		return nil, fmt.Errorf("padding failed: %w", err)
	}

	innerSealed, err := p.inner.Seal(padded)
	if err != nil {
		return nil, fmt.Errorf("inner encryption (AES-256-GCM) failed: %w", err)
	}

	outerSealed, err := p.outer.Seal(innerSealed)
	if err != nil {
		return nil, fmt.Errorf("outer encryption (XChaCha20-Poly1305) failed: %w", err)
	}

	// Reed-Solomon's shard split pads its input up to a multiple of
	// DataShards; prepend an explicit length so decode can discard
	// that padding before it reaches the outer AEAD, which rejects
	// any ciphertext with trailing bytes it didn't seal.
	framed := make([]byte, 4+len(outerSealed))
	binary.BigEndian.PutUint32(framed[:4], uint32(len(outerSealed)))
	copy(framed[4:], outerSealed)

	encoded, err := p.codec.Encode(framed)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon encoding failed: %w", err)
	}

	return encoded, nil
}

func (p *Pipeline) decrypt(data []byte) ([]byte, error) {
	decoded, err := p.codec.Decode(data, nil)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon decoding failed (data may be corrupted): %w", err)
	}
	// Decode takes every shard as intact and never reads the parity
	// shards, so re-encode and compare to catch a corrupted parity byte.
	reencoded, err := p.codec.Encode(decoded)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon parity check failed: %w", err)
	}
	if !bytes.Equal(reencoded, data) {
		return nil, fmt.Errorf("reed-solomon parity check failed (data corrupted): %w", vaulterr.ErrAeadAuth)
	}
	if len(decoded) < 4 {
		return nil, fmt.Errorf("reed-solomon payload too short to hold a length prefix")
	}
	payloadLen := binary.BigEndian.Uint32(decoded[:4])
	if int(payloadLen) > len(decoded)-4 {
		return nil, fmt.Errorf("reed-solomon payload length prefix %d exceeds decoded size", payloadLen)
	}
	outerSealed := decoded[4 : 4+payloadLen]

	outerOpened, err := p.outer.Open(outerSealed)
	if err != nil {
		return nil, fmt.Errorf("outer decryption (XChaCha20-Poly1305) failed: %w", err)
	}

	innerOpened, err := p.inner.Open(outerOpened)
	if err != nil {
		return nil, fmt.Errorf("inner decryption (AES-256-GCM) failed: %w", err)
	}

	unpadded, err := padding.Unpad(innerOpened)
	if err != nil {
		return nil, fmt.Errorf("padding validation failed: %w", err)
	}

	decompressed, err := compression.Decompress(unpadded)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}
