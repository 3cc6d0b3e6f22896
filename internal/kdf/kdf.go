// Package kdf derives the master key material from a password and a
// random salt using Argon2id.
package kdf

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/secret"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// NewSalt returns a fresh random salt of config.ArgonSaltLen bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, config.ArgonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, vaulterr.NewIoError("generate salt", err)
	}
	return salt, nil
}

// Derive runs Argon2id over password and salt, returning a
// config.ArgonKeyLen-byte master key wrapped in a zeroising buffer.
// The caller owns the returned secret.Bytes and must Close it.
func Derive(password, salt []byte) (*secret.Bytes, error) {
	if len(password) == 0 {
		return nil, vaulterr.ErrEmptyPassword
	}
	if len(password) < config.PasswordMinLength {
		return nil, vaulterr.ErrWeakPassword
	}
	if len(salt) != config.ArgonSaltLen {
		return nil, vaulterr.ErrInvalidSalt
	}

	raw := argon2.IDKey(password, salt, config.ArgonTime, config.ArgonMemoryKiB, config.ArgonThreads, config.ArgonKeyLen)
	return secret.NewFromBytes(raw), nil
}

// SplitMasterKey splits a derived master key into the two independent
// per-layer AEAD keys used by the inner (AES-256-GCM) and outer
// (XChaCha20-Poly1305) cipher stages.
func SplitMasterKey(master *secret.Bytes) (innerKey, outerKey []byte) {
	b := master.Bytes()
	return b[:config.KeySize], b[config.KeySize : 2*config.KeySize]
}
