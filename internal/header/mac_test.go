package header

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

var (
	testKey  = []byte("secret_key")
	wrongKey = []byte("wrong_key")
)

func TestComputeMAC_ProducesCorrectLength(t *testing.T) {
	mac, err := ComputeMAC(testKey, []byte("Hello"), []byte("World"))
	require.NoError(t, err)
	require.Len(t, mac, 32)
}

func TestVerifyMAC_SucceedsWithValidMAC(t *testing.T) {
	mac, err := ComputeMAC(testKey, []byte("Hello"), []byte("World"))
	require.NoError(t, err)
	require.NoError(t, VerifyMAC(testKey, mac[:], []byte("Hello"), []byte("World")))
}

func TestVerifyMAC_FailsWithWrongKey(t *testing.T) {
	mac, err := ComputeMAC(testKey, []byte("Hello"))
	require.NoError(t, err)
	require.ErrorIs(t, VerifyMAC(wrongKey, mac[:], []byte("Hello")), vaulterr.ErrHeaderAuth)
}

func TestVerifyMAC_FailsWithTamperedMAC(t *testing.T) {
	mac, err := ComputeMAC(testKey, []byte("Hello"))
	require.NoError(t, err)
	mac[0] ^= 0xFF
	require.ErrorIs(t, VerifyMAC(testKey, mac[:], []byte("Hello")), vaulterr.ErrHeaderAuth)
}

func TestComputeMAC_RejectsEmptyKey(t *testing.T) {
	_, err := ComputeMAC(nil, []byte("Hello"))
	require.Error(t, err)
}

func TestComputeMAC_SkipsEmptyParts(t *testing.T) {
	withEmpty, err := ComputeMAC(testKey, []byte("Hello"), nil, []byte("World"))
	require.NoError(t, err)
	withoutEmpty, err := ComputeMAC(testKey, []byte("Hello"), []byte("World"))
	require.NoError(t, err)
	require.Equal(t, withoutEmpty, withEmpty)
}
