// Package vault is the top-level orchestrator: it wires the KDF,
// container header, and the chunk reader/executor/writer pipeline into
// the two public entry points, Encrypt and Decrypt.
package vault

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/fileutil"
	"github.com/hadescrypt/vaultstream/internal/header"
	"github.com/hadescrypt/vaultstream/internal/kdf"
	"github.com/hadescrypt/vaultstream/internal/stream"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// removableWriter is satisfied by *os.File. When WithCleanupOnError is
// enabled (the default) and dst implements it, a failed run removes
// the partially written output rather than leaving a truncated file
// behind.
type removableWriter interface {
	io.Writer
	Name() string
}

func cleanupPartialOutput(o *options, dst io.Writer) {
	if !o.cleanupOnError {
		return
	}
	rw, ok := dst.(removableWriter)
	if !ok {
		return
	}
	if err := os.Remove(rw.Name()); err != nil && !os.IsNotExist(err) {
		o.logger.WithError(err).Warn("vault: failed to remove partial output after error")
	}
}

// Encrypt reads size bytes of plaintext from src, encrypts them under
// password, and writes the container (header followed by the chunk
// stream) to dst. name is recorded in the header's metadata as the
// original file's logical name.
//
// src must support Seek: Encrypt makes a first pass to compute the
// plaintext's content hash for the header, then rewinds to stream the
// actual encryption pass.
func Encrypt(ctx context.Context, src io.ReadSeeker, dst io.Writer, name string, size int64, password []byte, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := doEncrypt(ctx, o, src, dst, name, size, password); err != nil {
		cleanupPartialOutput(o, dst)
		return err
	}
	return nil
}

func doEncrypt(ctx context.Context, o *options, src io.ReadSeeker, dst io.Writer, name string, size int64, password []byte) error {
	if size <= 0 {
		return vaulterr.ErrEmptyInput
	}

	hash, err := fileutil.HashReader(io.LimitReader(src, size))
	if err != nil {
		return fmt.Errorf("vault: hash source: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return vaulterr.NewIoError("rewind source", err)
	}

	salt, err := kdf.NewSalt()
	if err != nil {
		return err
	}
	master, err := kdf.Derive(password, salt)
	if err != nil {
		return err
	}
	defer master.Close()
	innerKey, outerKey := kdf.SplitMasterKey(master)

	metadata := fileutil.Metadata{Name: name, Size: uint64(size), Hash: hash}
	hdr := header.New(uint64(size), metadata)
	headerBytes, err := hdr.Serialize(salt, master.Bytes())
	if err != nil {
		return fmt.Errorf("vault: serialize header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return vaulterr.NewIoError("write header", err)
	}
	o.logger.WithField("size", size).Debug("vault: header written")

	pipeline, err := stream.NewPipeline(innerKey, outerKey, stream.Encryption)
	if err != nil {
		return err
	}

	return runPipelineWithHash(ctx, o, pipeline, stream.Encryption, io.LimitReader(src, size), dst, nil)
}

// Decrypt reads a container produced by Encrypt from src, decrypts it
// under password, and writes the recovered plaintext to dst. It
// returns the verified metadata recorded in the header, which includes
// the original file's logical name.
func Decrypt(ctx context.Context, src io.Reader, dst io.Writer, password []byte, opts ...Option) (*fileutil.Metadata, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	metadata, err := doDecrypt(ctx, o, src, dst, password)
	if err != nil {
		cleanupPartialOutput(o, dst)
		return nil, err
	}
	return metadata, nil
}

func doDecrypt(ctx context.Context, o *options, src io.Reader, dst io.Writer, password []byte) (*fileutil.Metadata, error) {
	hdr, err := header.Deserialize(src)
	if err != nil {
		return nil, err
	}

	salt, err := hdr.Salt()
	if err != nil {
		return nil, err
	}
	master, err := kdf.Derive(password, salt)
	if err != nil {
		return nil, err
	}
	defer master.Close()

	if err := hdr.Verify(master.Bytes()); err != nil {
		o.logger.Warn("vault: header authentication failed")
		return nil, err
	}
	innerKey, outerKey := kdf.SplitMasterKey(master)

	pipeline, err := stream.NewPipeline(innerKey, outerKey, stream.Decryption)
	if err != nil {
		return nil, err
	}

	hasher := fileutil.NewHasher()
	if err := runPipelineWithHash(ctx, o, pipeline, stream.Decryption, src, dst, hasher); err != nil {
		return nil, err
	}

	metadata := hdr.Metadata()
	gotHash := hasher.Sum()
	if gotHash != metadata.Hash {
		o.logger.Error("vault: content hash mismatch after decryption")
		return nil, vaulterr.ErrContentHash
	}

	return &metadata, nil
}

// runPipelineWithHash starts the reader and an executor of o.workers
// pipeline workers as goroutines, and runs the writer, which drains
// results in order, on the calling goroutine. hash, if non-nil, is fed
// the plaintext: by the reader when encrypting, by the writer when
// decrypting (used on decrypt to compute the content digest without a
// second pass over dst).
func runPipelineWithHash(ctx context.Context, o *options, pipeline *stream.Pipeline, mode stream.Processing, src io.Reader, dst io.Writer, hash io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reader, err := stream.NewReader(mode, config.ChunkSize, readerHash(mode, hash))
	if err != nil {
		return err
	}

	tasks := make(chan stream.Task, o.workers*2)
	results := stream.RunExecutor(ctx, pipeline, tasks, o.workers)

	readErrCh := make(chan error, 1)
	go func() {
		defer close(tasks)
		readErrCh <- reader.Run(ctx, src, tasks)
	}()

	writer := stream.NewWriter(mode, writerHash(mode, hash))
	writeErr := writer.Run(dst, results)
	if writeErr != nil {
		// Stop the reader and workers, which may be blocked sending to
		// channels the writer no longer drains.
		cancel()
	}

	readErr := <-readErrCh
	if writeErr != nil {
		o.logger.WithError(writeErr).Error("vault: pipeline write stage failed")
		return writeErr
	}
	if readErr != nil {
		o.logger.WithError(readErr).Error("vault: pipeline read stage failed")
		return vaulterr.NewIoError("read source", readErr)
	}
	return nil
}

// readerHash returns hash only for the encryption direction, where
// the content digest must be taken from the plaintext as it is read,
// before it is encrypted.
func readerHash(mode stream.Processing, hash io.Writer) io.Writer {
	if mode == stream.Encryption {
		return hash
	}
	return nil
}

// writerHash returns hash only for the decryption direction, where
// the content digest must be taken from the plaintext as it is
// written, after it has been decrypted.
func writerHash(mode stream.Processing, hash io.Writer) io.Writer {
	if mode == stream.Decryption {
		return hash
	}
	return nil
}
