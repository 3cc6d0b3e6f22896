// Package header implements the container header (spec component G):
// a magic/salt/header-data/metadata/MAC quintet, each section
// independently Reed–Solomon encoded, framed behind its own doubly
// erasure-coded length prefix so that header corruption is repairable
// at both the framing and payload level.
package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hadescrypt/vaultstream/internal/config"
	"github.com/hadescrypt/vaultstream/internal/fileutil"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// headerDataSize is the fixed width of the HeaderData section:
// version(2) ‖ flags(4) ‖ original_size(8).
const headerDataSize = 2 + 4 + 8

var magicBytes = func() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], config.MagicBytes)
	return b[:]
}()

// Header describes the parsed or pending-serialisation state of a
// container header.
type Header struct {
	version      uint16
	flags        uint32
	originalSize uint64
	metadata     fileutil.Metadata
	sections     *Sections // set once Deserialize succeeds
}

// New constructs a Header ready to serialise, with FlagProtected set.
func New(originalSize uint64, metadata fileutil.Metadata) *Header {
	return &Header{
		version:      config.CurrentVersion,
		flags:        config.FlagProtected,
		originalSize: originalSize,
		metadata:     metadata,
	}
}

// Version reports the header's format version.
func (h *Header) Version() uint16 { return h.version }

// OriginalSize reports the plaintext size recorded in the header.
func (h *Header) OriginalSize() uint64 { return h.originalSize }

// Metadata reports the file metadata recorded in the header.
func (h *Header) Metadata() fileutil.Metadata { return h.metadata }

// Validate checks the header's fields independent of any key: version
// range, non-zero size, and the FlagProtected invariant.
func (h *Header) Validate() error {
	if h.version < config.MinVersion || h.version > config.MaxVersion {
		return vaulterr.ErrUnsupportedVersion
	}
	if h.originalSize == 0 {
		return fmt.Errorf("header: original size cannot be zero")
	}
	if h.flags&config.FlagProtected == 0 {
		return fmt.Errorf("header: file is not protected")
	}
	return nil
}

// Serialize validates h and writes its erasure-coded, authenticated
// wire form: a 20-byte lengths header, five encoded length-prefixes,
// then five encoded section payloads.
func (h *Header) Serialize(salt, key []byte) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != config.ArgonSaltLen {
		return nil, vaulterr.ErrInvalidSalt
	}
	if len(key) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}

	headerData := serializeHeaderData(h.version, h.flags, h.originalSize)
	metadataBytes := EncodeMetadata(h.metadata)
	mac, err := ComputeMAC(key, magicBytes, salt, headerData)
	if err != nil {
		return nil, err
	}

	raw := [5][]byte{magicBytes, salt, headerData, metadataBytes, mac[:]}

	encoder, err := NewSectionEncoder()
	if err != nil {
		return nil, err
	}
	sections, lengthSections, err := encoder.EncodeAll(raw)
	if err != nil {
		return nil, err
	}
	lengthsHeader := BuildLengthsHeader(lengthSections)

	total := len(lengthsHeader)
	for _, s := range lengthSections {
		total += len(s)
	}
	for _, s := range sections {
		total += len(s)
	}

	out := make([]byte, 0, total)
	out = append(out, lengthsHeader[:]...)
	for _, s := range lengthSections {
		out = append(out, s...)
	}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out, nil
}

// Deserialize reads and erasure-decodes a header from r, validating
// its magic, version range, and FlagProtected bit. The MAC is not
// checked here — call Verify once the password-derived key is known.
func Deserialize(r io.Reader) (*Header, error) {
	decoder, err := NewSectionDecoder()
	if err != nil {
		return nil, err
	}

	lengthSizes, err := decoder.ReadLengthsHeader(r)
	if err != nil {
		return nil, err
	}
	sectionLengths, err := decoder.ReadAndDecodeLengths(r, lengthSizes)
	if err != nil {
		return nil, err
	}
	sections, err := decoder.ReadAndDecodeSections(r, sectionLengths, magicBytes)
	if err != nil {
		return nil, err
	}

	headerData, err := sections.GetMinLen(SectionHeaderData, headerDataSize)
	if err != nil {
		return nil, vaulterr.NewHeaderParseError(err)
	}
	version, flags, originalSize := parseHeaderData(headerData)

	metadataBytes, ok := sections.Get(SectionMetadata)
	if !ok {
		return nil, vaulterr.NewHeaderParseError(fmt.Errorf("header: missing metadata section"))
	}
	metadata, err := DecodeMetadata(metadataBytes)
	if err != nil {
		return nil, vaulterr.NewHeaderParseError(err)
	}

	h := &Header{version: version, flags: flags, originalSize: originalSize, metadata: metadata, sections: sections}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Salt returns the decoded salt section of a deserialized header.
func (h *Header) Salt() ([]byte, error) {
	if h.sections == nil {
		return nil, fmt.Errorf("header: not deserialized")
	}
	return h.sections.GetMinLen(SectionSalt, config.ArgonSaltLen)
}

// Verify recomputes and checks the header's MAC against key, the last
// step before the decrypted master key is trusted.
func (h *Header) Verify(key []byte) error {
	if len(key) == 0 {
		return vaulterr.ErrEmptyInput
	}
	if h.sections == nil {
		return fmt.Errorf("header: not deserialized")
	}

	expectedMAC, err := h.sections.GetMinLen(SectionMAC, config.MACSize)
	if err != nil {
		return vaulterr.NewHeaderParseError(err)
	}
	magic, err := h.sections.GetMinLen(SectionMagic, len(magicBytes))
	if err != nil {
		return vaulterr.NewHeaderParseError(err)
	}
	salt, err := h.sections.GetMinLen(SectionSalt, config.ArgonSaltLen)
	if err != nil {
		return vaulterr.NewHeaderParseError(err)
	}
	headerData, err := h.sections.GetMinLen(SectionHeaderData, headerDataSize)
	if err != nil {
		return vaulterr.NewHeaderParseError(err)
	}

	return VerifyMAC(key, expectedMAC, magic, salt, headerData)
}

func serializeHeaderData(version uint16, flags uint32, originalSize uint64) []byte {
	out := make([]byte, headerDataSize)
	binary.BigEndian.PutUint16(out[0:2], version)
	binary.BigEndian.PutUint32(out[2:6], flags)
	binary.BigEndian.PutUint64(out[6:14], originalSize)
	return out
}

func parseHeaderData(data []byte) (version uint16, flags uint32, originalSize uint64) {
	version = binary.BigEndian.Uint16(data[0:2])
	flags = binary.BigEndian.Uint32(data[2:6])
	originalSize = binary.BigEndian.Uint64(data[6:14])
	return
}
