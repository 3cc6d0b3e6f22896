package header

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// constantTimeEqual reports whether a and b are equal, comparing in
// constant time when their lengths match.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ComputeMAC computes an HMAC-SHA256 over the concatenation of parts,
// skipping any empty part so that an absent optional section does not
// change the MAC of a header that never had one.
func ComputeMAC(key []byte, parts ...[]byte) ([config.MACSize]byte, error) {
	var out [config.MACSize]byte
	if len(key) == 0 {
		return out, vaulterr.ErrEmptyInput
	}

	mac := hmac.New(sha256.New, key)
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		mac.Write(p)
	}
	copy(out[:], mac.Sum(nil))
	return out, nil
}

// VerifyMAC recomputes the MAC over parts and compares it against
// expected in constant time.
func VerifyMAC(key []byte, expected []byte, parts ...[]byte) error {
	computed, err := ComputeMAC(key, parts...)
	if err != nil {
		return err
	}
	if !hmac.Equal(computed[:], expected) {
		return vaulterr.ErrHeaderAuth
	}
	return nil
}
