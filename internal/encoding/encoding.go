// Package encoding implements the Reed–Solomon erasure coding applied
// to every chunk payload and to each section of the container header.
// It is a systematic code: the first DataShards shards hold the
// (zero-padded) input verbatim, and the remaining ParityShards are
// parity computed over them, so decoding with no erasures is a plain
// concatenation, while decoding with up to ParityShards shards missing
// recovers the original data shards first.
package encoding

import (
	"fmt"

	"github.com/klauspost/reedsolomon"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// Codec wraps a klauspost/reedsolomon encoder configured for the
// format's fixed shard geometry.
type Codec struct {
	enc         reedsolomon.Encoder
	dataShards  int
	totalShards int
}

// New constructs a Codec using the format's DataShards/ParityShards.
func New() (*Codec, error) {
	return NewWithShards(config.DataShards, config.ParityShards)
}

// NewWithShards constructs a Codec with an explicit shard geometry,
// exposed mainly for testing erasure recovery at non-default ratios.
func NewWithShards(dataShards, parityShards int) (*Codec, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("encoding: construct reed-solomon encoder: %w", err)
	}
	return &Codec{enc: enc, dataShards: dataShards, totalShards: dataShards + parityShards}, nil
}

// Encode splits data across DataShards equal-size shards (zero-padding
// the last one as needed), computes ParityShards parity shards over
// them, and returns the concatenation of all shards in order.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	if len(data) > config.MaxEncodedLen {
		return nil, fmt.Errorf("encoding: input of %d bytes exceeds maximum %d", len(data), config.MaxEncodedLen)
	}

	shardSize := ceilDiv(len(data), c.dataShards)
	shards := make([][]byte, c.totalShards)
	for i := range shards {
		shards[i] = make([]byte, shardSize)
	}
	for i := 0; i < c.dataShards; i++ {
		start := i * shardSize
		if start >= len(data) {
			break
		}
		end := start + shardSize
		if end > len(data) {
			end = len(data)
		}
		copy(shards[i], data[start:end])
	}

	if err := c.enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("encoding: reed-solomon encode: %w", err)
	}

	out := make([]byte, 0, shardSize*c.totalShards)
	for _, s := range shards {
		out = append(out, s...)
	}
	return out, nil
}

// Decode splits encoded into TotalShards equal shards and reconstructs
// any marked missing before extracting and concatenating the
// DataShards data shards. present, if non-nil, marks which shards were
// actually read (true) versus erased (false); a nil present means all
// shards are intact. The returned data includes any zero padding
// Encode added — callers that know the original length must trim it.
func (c *Codec) Decode(encoded []byte, present []bool) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	if len(encoded)%c.totalShards != 0 {
		return nil, fmt.Errorf("encoding: encoded length %d not divisible by %d shards", len(encoded), c.totalShards)
	}

	shardSize := len(encoded) / c.totalShards
	shards := make([][]byte, c.totalShards)
	for i := 0; i < c.totalShards; i++ {
		shards[i] = encoded[i*shardSize : (i+1)*shardSize]
	}

	if present != nil {
		if len(present) != c.totalShards {
			return nil, fmt.Errorf("encoding: present mask length %d does not match %d shards", len(present), c.totalShards)
		}
		for i, ok := range present {
			if !ok {
				shards[i] = nil
			}
		}
		if err := c.enc.Reconstruct(shards); err != nil {
			return nil, fmt.Errorf("encoding: reed-solomon reconstruct: %w", err)
		}
	}

	out := make([]byte, 0, shardSize*c.dataShards)
	for i := 0; i < c.dataShards; i++ {
		out = append(out, shards[i]...)
	}
	return out, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
