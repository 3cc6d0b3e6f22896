package stream

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// Writer drains a TaskResult channel through an ordering buffer and
// writes each chunk to output in sequence. In Encryption mode each
// chunk is framed with a 4-byte big-endian length prefix so the
// decrypting Reader can split the stream back into chunks; in
// Decryption mode chunks are written raw, and every chunk written also
// flows through hash, if set.
type Writer struct {
	mode   Processing
	hash   io.Writer
	buffer *orderingBuffer
}

// NewWriter constructs a Writer expecting results starting at index 0.
func NewWriter(mode Processing, hash io.Writer) *Writer {
	return &Writer{mode: mode, hash: hash, buffer: newOrderingBuffer(0)}
}

// Run consumes results until the channel closes, writing each ready
// chunk to output in order. It returns the first ChunkProcessingError
// encountered, aborting without writing any further chunks.
func (w *Writer) Run(output io.Writer, results <-chan TaskResult) error {
	buffered := bufio.NewWriter(output)

	for result := range results {
		if result.Err != nil {
			return vaulterr.NewChunkError(result.Index, result.Err)
		}

		ready := w.buffer.add(result)
		if err := w.writeResults(buffered, ready); err != nil {
			return err
		}
	}

	remaining := w.buffer.flush()
	if err := w.writeResults(buffered, remaining); err != nil {
		return err
	}

	if err := buffered.Flush(); err != nil {
		return vaulterr.NewIoError("flush output", err)
	}
	return nil
}

func (w *Writer) writeResults(out io.Writer, results []TaskResult) error {
	for _, result := range results {
		if err := w.writeSingle(out, result); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSingle(out io.Writer, result TaskResult) error {
	if w.mode == Encryption {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(result.Data)))
		if _, err := out.Write(lenBuf[:]); err != nil {
			return vaulterr.NewIoError("write chunk length", err)
		}
	}

	if _, err := out.Write(result.Data); err != nil {
		return vaulterr.NewIoError("write chunk data", err)
	}
	// Only Decryption mode writes plaintext here; Encryption mode
	// writes ciphertext, whose hash the Reader already took before
	// this chunk was encrypted.
	if w.hash != nil && w.mode == Decryption {
		w.hash.Write(result.Data)
	}
	return nil
}
