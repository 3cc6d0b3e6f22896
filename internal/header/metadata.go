package header

import (
	"encoding/binary"
	"fmt"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/fileutil"
)

// EncodeMetadata serialises m as: name_len(2) ‖ name ‖ size(8) ‖
// hash(config.HashSize). The name is truncated to config.MaxFilenameLen
// bytes, matching the original format's filename cap.
func EncodeMetadata(m fileutil.Metadata) []byte {
	name := m.Name
	if len(name) > config.MaxFilenameLen {
		name = name[:config.MaxFilenameLen]
	}

	out := make([]byte, 2+len(name)+8+config.HashSize)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(name)))
	copy(out[2:2+len(name)], name)
	offset := 2 + len(name)
	binary.BigEndian.PutUint64(out[offset:offset+8], m.Size)
	copy(out[offset+8:], m.Hash[:])
	return out
}

// DecodeMetadata parses the wire format produced by EncodeMetadata.
func DecodeMetadata(data []byte) (fileutil.Metadata, error) {
	var m fileutil.Metadata
	if len(data) < 2 {
		return m, fmt.Errorf("header: metadata section too short")
	}
	nameLen := int(binary.BigEndian.Uint16(data[0:2]))
	want := 2 + nameLen + 8 + config.HashSize
	if len(data) < want {
		return m, fmt.Errorf("header: metadata section too short: want %d, got %d", want, len(data))
	}

	m.Name = string(data[2 : 2+nameLen])
	offset := 2 + nameLen
	m.Size = binary.BigEndian.Uint64(data[offset : offset+8])
	copy(m.Hash[:], data[offset+8:offset+8+config.HashSize])
	return m, nil
}
