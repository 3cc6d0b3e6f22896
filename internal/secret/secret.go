// Package secret wraps password and key material in a locked, zeroising
// buffer so it never lingers in ordinary Go heap memory longer than it
// has to.
package secret

import (
	"errors"

	"github.com/awnumar/memguard"
)

// ErrClosed is the error for an access made after Close. The methods of
// Bytes do not return it: after Close, Bytes returns nil.
var ErrClosed = errors.New("secret: buffer already closed")

// Bytes is a zeroising wrapper around sensitive byte slices, backed by
// a memguard.LockedBuffer. The zero value is not usable; construct one
// with New or NewFromBytes.
type Bytes struct {
	buf *memguard.LockedBuffer
}

// New allocates a locked buffer of n bytes.
func New(n int) *Bytes {
	return &Bytes{buf: memguard.NewBuffer(n)}
}

// NewFromBytes copies b into a locked buffer and wipes the caller's
// copy of b in place.
func NewFromBytes(b []byte) *Bytes {
	return &Bytes{buf: memguard.NewBufferFromBytes(b)}
}

// Bytes returns the underlying slice. The slice is only valid until
// Close is called; callers must not retain it past that point.
func (s *Bytes) Bytes() []byte {
	if s == nil || s.buf == nil || !s.buf.IsAlive() {
		return nil
	}
	return s.buf.Bytes()
}

// Len reports the length of the underlying buffer.
func (s *Bytes) Len() int {
	if s == nil || s.buf == nil {
		return 0
	}
	return s.buf.Size()
}

// Close melts the underlying buffer: the memory is zeroed and
// unlocked. Close is idempotent.
func (s *Bytes) Close() error {
	if s == nil || s.buf == nil {
		return nil
	}
	s.buf.Destroy()
	return nil
}
