package stream

import (
	"bytes"
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T) (inner, outer []byte) {
	inner = make([]byte, 32)
	outer = make([]byte, 32)
	_, err := rand.Read(inner)
	require.NoError(t, err)
	_, err = rand.Read(outer)
	require.NoError(t, err)
	return inner, outer
}

func TestPipeline_EncryptDecryptRoundTrip(t *testing.T) {
	inner, outer := testKeys(t)

	enc, err := NewPipeline(inner, outer, Encryption)
	require.NoError(t, err)
	dec, err := NewPipeline(inner, outer, Decryption)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("pipeline round trip test data"), 200)
	encrypted := enc.Process(context.Background(), Task{Index: 0, Data: data})
	require.NoError(t, encrypted.Err)

	decrypted := dec.Process(context.Background(), Task{Index: 0, Data: encrypted.Data})
	require.NoError(t, decrypted.Err)
	require.Equal(t, data, decrypted.Data)
}

func TestPipeline_CancelledContextAbortsImmediately(t *testing.T) {
	inner, outer := testKeys(t)
	enc, err := NewPipeline(inner, outer, Encryption)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := enc.Process(ctx, Task{Index: 3, Data: []byte("irrelevant")})
	require.Error(t, result.Err)
	require.Equal(t, uint64(3), result.Index)
}

func TestPipeline_TamperedCiphertextFailsDecrypt(t *testing.T) {
	inner, outer := testKeys(t)
	enc, err := NewPipeline(inner, outer, Encryption)
	require.NoError(t, err)
	dec, err := NewPipeline(inner, outer, Decryption)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("x"), 512)
	encrypted := enc.Process(context.Background(), Task{Data: data})
	require.NoError(t, encrypted.Err)

	// Flip a byte within the first data shard, so the corruption reaches
	// the decoded payload as well as breaking the parity check.
	tampered := append([]byte{}, encrypted.Data...)
	tampered[0] ^= 0xFF

	decrypted := dec.Process(context.Background(), Task{Data: tampered})
	require.Error(t, decrypted.Err)
}
