// Package cipher provides the two independent AEAD layers the pipeline
// applies to every chunk: AES-256-GCM as the inner layer and
// XChaCha20-Poly1305 as the outer layer. Both share the same
// nonce-prepended wire shape: [nonce][ciphertext||tag].
package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// AEAD seals and opens byte slices under a fixed key, prepending a
// fresh random nonce to every sealed output.
type AEAD interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

type aesGCM struct {
	aead stdcipher.AEAD
}

// NewAESGCM constructs the inner AEAD layer from a 32-byte key.
func NewAESGCM(key []byte) (AEAD, error) {
	if len(key) != config.KeySize {
		return nil, fmt.Errorf("cipher: aes-gcm key must be %d bytes, got %d", config.KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := stdcipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesGCM{aead: gcm}, nil
}

func (a *aesGCM) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	nonce := make([]byte, config.AESNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, vaulterr.NewIoError("generate nonce", err)
	}
	out := a.aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, out...), nil
}

func (a *aesGCM) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < config.AESNonceSize+a.aead.Overhead() {
		return nil, vaulterr.ErrAeadAuth
	}
	nonce, ct := sealed[:config.AESNonceSize], sealed[config.AESNonceSize:]
	pt, err := a.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, vaulterr.ErrAeadAuth
	}
	return pt, nil
}

type xchacha struct {
	aead stdcipher.AEAD
}

// NewXChaCha20Poly1305 constructs the outer AEAD layer from a 32-byte key.
func NewXChaCha20Poly1305(key []byte) (AEAD, error) {
	if len(key) != config.KeySize {
		return nil, fmt.Errorf("cipher: xchacha20poly1305 key must be %d bytes, got %d", config.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &xchacha{aead: aead}, nil
}

func (x *xchacha) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	nonce := make([]byte, config.ChaChaNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, vaulterr.NewIoError("generate nonce", err)
	}
	out := x.aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, out...), nil
}

func (x *xchacha) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < config.ChaChaNonceSize+x.aead.Overhead() {
		return nil, vaulterr.ErrAeadAuth
	}
	nonce, ct := sealed[:config.ChaChaNonceSize], sealed[config.ChaChaNonceSize:]
	pt, err := x.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, vaulterr.ErrAeadAuth
	}
	return pt, nil
}
