package stream

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hadescrypt/vaultstream/internal/config"
)

// Reader splits an input stream into Tasks: fixed-size chunks when
// encrypting, length-prefixed chunks (as the writer framed them) when
// decrypting. In Encryption mode every byte read also flows through
// hash, if set, so the caller gets a streaming content digest for free;
// Decryption mode does not feed hash.
type Reader struct {
	mode      Processing
	chunkSize int
	hash      io.Writer
}

// NewReader constructs a Reader. chunkSize sets the read buffer size in
// both modes and the chunk size in Encryption mode, where it must be at
// least config.MinChunkSize.
func NewReader(mode Processing, chunkSize int, hash io.Writer) (*Reader, error) {
	if mode == Encryption && chunkSize < config.MinChunkSize {
		return nil, fmt.Errorf("stream: chunk size must be at least %d bytes, got %d", config.MinChunkSize, chunkSize)
	}
	return &Reader{mode: mode, chunkSize: chunkSize, hash: hash}, nil
}

// Run reads from input, emitting one Task per chunk onto out, until
// EOF or ctx is cancelled. It does not close out.
func (r *Reader) Run(ctx context.Context, input io.Reader, out chan<- Task) error {
	buffered := bufio.NewReaderSize(input, r.chunkSize)

	switch r.mode {
	case Encryption:
		return r.readFixedChunks(ctx, buffered, out)
	case Decryption:
		return r.readLengthPrefixed(ctx, buffered, out)
	default:
		return fmt.Errorf("stream: unknown processing mode %d", r.mode)
	}
}

func (r *Reader) readFixedChunks(ctx context.Context, reader io.Reader, out chan<- Task) error {
	buffer := make([]byte, r.chunkSize)
	var index uint64

	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			if r.hash != nil {
				r.hash.Write(buffer[:n])
			}
			data := make([]byte, n)
			copy(data, buffer[:n])
			if sendErr := r.send(ctx, out, Task{Index: index, Data: data}); sendErr != nil {
				return sendErr
			}
			index++
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream: read chunk: %w", err)
		}
	}
}

func (r *Reader) readLengthPrefixed(ctx context.Context, reader io.Reader, out chan<- Task) error {
	var index uint64

	for {
		var lenBuf [4]byte
		_, err := io.ReadFull(reader, lenBuf[:])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream: read chunk length: %w", err)
		}

		chunkLen := binary.BigEndian.Uint32(lenBuf[:])
		if chunkLen == 0 {
			continue
		}

		data := make([]byte, chunkLen)
		if _, err := io.ReadFull(reader, data); err != nil {
			return fmt.Errorf("stream: read chunk data: %w", err)
		}

		if sendErr := r.send(ctx, out, Task{Index: index, Data: data}); sendErr != nil {
			return sendErr
		}
		index++
	}
}

func (r *Reader) send(ctx context.Context, out chan<- Task, task Task) error {
	select {
	case out <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
