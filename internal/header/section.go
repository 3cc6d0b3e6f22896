package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hadescrypt/vaultstream/internal/encoding"
	"github.com/hadescrypt/vaultstream/internal/vaulterr"
)

// SectionType identifies one of the five fields that make up a
// container header, each erasure-coded independently.
type SectionType int

const (
	SectionMagic SectionType = iota
	SectionSalt
	SectionHeaderData
	SectionMetadata
	SectionMAC
)

// AllSectionTypes lists every section in on-disk order.
var AllSectionTypes = [5]SectionType{SectionMagic, SectionSalt, SectionHeaderData, SectionMetadata, SectionMAC}

func (t SectionType) String() string {
	switch t {
	case SectionMagic:
		return "Magic"
	case SectionSalt:
		return "Salt"
	case SectionHeaderData:
		return "HeaderData"
	case SectionMetadata:
		return "Metadata"
	case SectionMAC:
		return "Mac"
	default:
		return "Unknown"
	}
}

// lengthsHeaderSize is the size of the fixed framing block that
// precedes the encoded length-prefixes: one big-endian uint32 per
// section.
const lengthsHeaderSize = 4 * len(AllSectionTypes)

// Sections holds the decoded payload of every section after a
// successful parse.
type Sections struct {
	data map[SectionType][]byte
}

// Get returns the decoded bytes for t, or false if absent/empty.
func (s *Sections) Get(t SectionType) ([]byte, bool) {
	d, ok := s.data[t]
	if !ok || len(d) == 0 {
		return nil, false
	}
	return d, true
}

// GetMinLen returns the first minLen decoded bytes for t, requiring at
// least minLen bytes; any longer tail (such as Reed–Solomon zero
// padding) is dropped.
func (s *Sections) GetMinLen(t SectionType, minLen int) ([]byte, error) {
	d, ok := s.Get(t)
	if !ok {
		return nil, fmt.Errorf("header: %s section not found", t)
	}
	if len(d) < minLen {
		return nil, fmt.Errorf("header: %s section too short: expected at least %d, got %d", t, minLen, len(d))
	}
	return d[:minLen], nil
}

// sectionsBuilder accumulates decoded sections while parsing, then
// validates that all five are present and non-empty.
type sectionsBuilder struct {
	data map[SectionType][]byte
}

func newSectionsBuilder() *sectionsBuilder {
	return &sectionsBuilder{data: make(map[SectionType][]byte, len(AllSectionTypes))}
}

func (b *sectionsBuilder) set(t SectionType, value []byte) {
	b.data[t] = value
}

func (b *sectionsBuilder) build() (*Sections, error) {
	for _, t := range AllSectionTypes {
		v, ok := b.data[t]
		if !ok {
			return nil, fmt.Errorf("header: %s section is missing", t)
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("header: %s section is empty", t)
		}
	}
	return &Sections{data: b.data}, nil
}

// SectionEncoder erasure-encodes each raw section (and each section's
// own length prefix) with the header's Reed–Solomon codec.
type SectionEncoder struct {
	codec *encoding.Codec
}

// NewSectionEncoder constructs an encoder using the format's default
// shard geometry.
func NewSectionEncoder() (*SectionEncoder, error) {
	codec, err := encoding.New()
	if err != nil {
		return nil, err
	}
	return &SectionEncoder{codec: codec}, nil
}

// EncodeSection erasure-encodes a single section's raw bytes.
func (e *SectionEncoder) EncodeSection(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vaulterr.ErrEmptyInput
	}
	return e.codec.Encode(data)
}

// EncodeLength erasure-encodes a 4-byte big-endian length prefix.
func (e *SectionEncoder) EncodeLength(length uint32) ([]byte, error) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], length)
	return e.EncodeSection(b[:])
}

// EncodeAll erasure-encodes all five raw sections and their respective
// encoded lengths, in AllSectionTypes order.
func (e *SectionEncoder) EncodeAll(raw [5][]byte) (sections [5][]byte, lengthSections [5][]byte, err error) {
	for i, data := range raw {
		sections[i], err = e.EncodeSection(data)
		if err != nil {
			return sections, lengthSections, fmt.Errorf("header: encode %s section: %w", AllSectionTypes[i], err)
		}
		lengthSections[i], err = e.EncodeLength(uint32(len(sections[i])))
		if err != nil {
			return sections, lengthSections, fmt.Errorf("header: encode %s length: %w", AllSectionTypes[i], err)
		}
	}
	return sections, lengthSections, nil
}

// BuildLengthsHeader packs the on-disk byte lengths of the five
// length-sections into the fixed 20-byte framing block.
func BuildLengthsHeader(lengthSections [5][]byte) [lengthsHeaderSize]byte {
	var out [lengthsHeaderSize]byte
	for i, s := range lengthSections {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], uint32(len(s)))
	}
	return out
}

// SectionDecoder erasure-decodes sections and length prefixes read
// from a container stream.
type SectionDecoder struct {
	codec *encoding.Codec
}

// NewSectionDecoder constructs a decoder using the format's default
// shard geometry.
func NewSectionDecoder() (*SectionDecoder, error) {
	codec, err := encoding.New()
	if err != nil {
		return nil, err
	}
	return &SectionDecoder{codec: codec}, nil
}

// DecodeSection erasure-decodes a single encoded section, with no
// erasures (the production read path always has a complete stream).
func (d *SectionDecoder) DecodeSection(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, vaulterr.NewHeaderParseError(vaulterr.ErrEmptyInput)
	}
	decoded, err := d.codec.Decode(encoded, nil)
	if err != nil {
		return nil, vaulterr.NewHeaderParseError(err)
	}
	return decoded, nil
}

// DecodeLength erasure-decodes a section holding a 4-byte big-endian
// length prefix.
func (d *SectionDecoder) DecodeLength(encoded []byte) (uint32, error) {
	decoded, err := d.DecodeSection(encoded)
	if err != nil {
		return 0, err
	}
	if len(decoded) < 4 {
		return 0, vaulterr.NewHeaderParseError(fmt.Errorf("header: invalid length prefix size %d", len(decoded)))
	}
	return binary.BigEndian.Uint32(decoded[:4]), nil
}

// ReadLengthsHeader reads the fixed 20-byte framing block from r.
func (d *SectionDecoder) ReadLengthsHeader(r io.Reader) ([5]uint32, error) {
	var buf [lengthsHeaderSize]byte
	var out [5]uint32
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return out, vaulterr.NewHeaderParseError(fmt.Errorf("read lengths header: %w", err))
	}
	for i := range out {
		out[i] = binary.BigEndian.Uint32(buf[i*4 : i*4+4])
	}
	return out, nil
}

// ReadAndDecodeLengths reads and decodes the five encoded length
// sections, each sized per lengthSizes, returning the decoded payload
// lengths.
func (d *SectionDecoder) ReadAndDecodeLengths(r io.Reader, lengthSizes [5]uint32) ([5]uint32, error) {
	var out [5]uint32
	for i, t := range AllSectionTypes {
		encoded, err := readExact(r, int(lengthSizes[i]), t, "length")
		if err != nil {
			return out, err
		}
		length, err := d.DecodeLength(encoded)
		if err != nil {
			return out, err
		}
		out[i] = length
	}
	return out, nil
}

// ReadAndDecodeSections reads and decodes the five payload sections,
// each sized per sectionLengths, verifying the magic section against
// expectedMagic as it is decoded.
func (d *SectionDecoder) ReadAndDecodeSections(r io.Reader, sectionLengths [5]uint32, expectedMagic []byte) (*Sections, error) {
	encoded, err := readExact(r, int(sectionLengths[0]), SectionMagic, "payload")
	if err != nil {
		return nil, err
	}
	magic, err := d.DecodeSection(encoded)
	if err != nil {
		return nil, err
	}
	if !constantTimeEqual(magic, expectedMagic) {
		return nil, vaulterr.ErrInvalidMagic
	}

	builder := newSectionsBuilder()
	builder.set(SectionMagic, magic)
	for i := 1; i < len(AllSectionTypes); i++ {
		t := AllSectionTypes[i]
		encoded, err := readExact(r, int(sectionLengths[i]), t, "payload")
		if err != nil {
			return nil, err
		}
		decoded, err := d.DecodeSection(encoded)
		if err != nil {
			return nil, err
		}
		builder.set(t, decoded)
	}

	sections, err := builder.build()
	if err != nil {
		return nil, vaulterr.NewHeaderParseError(err)
	}
	return sections, nil
}

func readExact(r io.Reader, size int, t SectionType, kind string) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, vaulterr.NewHeaderParseError(fmt.Errorf("read encoded %s %s: %w", t, kind, err))
	}
	return buf, nil
}
