// Package config holds the compile-time constants that define the
// on-disk format: KDF parameters, shard counts, block and chunk sizes,
// and the header's magic/version range. None of this is user
// configurable at runtime — the format has exactly one shape.
package config

const (
	// Argon2id parameters (A).
	ArgonTime      uint32 = 3
	ArgonMemoryKiB uint32 = 64 * 1024
	ArgonThreads   uint8  = 4
	ArgonKeyLen    uint32 = 64
	ArgonSaltLen   int    = 32

	// Split of the derived 64-byte master key into two 32-byte
	// per-layer AEAD keys (B, C).
	KeySize        = 32
	AESNonceSize   = 12
	ChaChaNonceSize = 24

	// Reed–Solomon shard geometry (F).
	DataShards   = 4
	ParityShards = 10
	TotalShards  = DataShards + ParityShards

	// Padding (E).
	BlockSize = 128

	// Streaming chunk size (I).
	ChunkSize    = 256 * 1024
	MinChunkSize = 256 * 1024

	// Container header (G).
	MagicBytes      uint32 = 0xDEADBEEF
	CurrentVersion  uint16 = 2
	MinVersion      uint16 = 1
	MaxVersion      uint16 = CurrentVersion
	FlagProtected   uint32 = 1 << 0
	MACSize         = 32 // HMAC-SHA256
	MaxFilenameLen  = 256

	// Content hash (N).
	HashSize = 20 // truncated BLAKE3

	// Password policy.
	PasswordMinLength = 8

	// Recommended output extension (§6).
	FileExtension = ".swx"

	// Upper bound on a single Reed–Solomon encode/decode call, guarding
	// against pathological allocations on a corrupt length prefix.
	MaxEncodedLen = 1 << 30
)
