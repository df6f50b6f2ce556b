package persistence

import "errors"

const (
	// MagicNumber identifies container files (ASCII "SPM1" read as a
	// little-endian uint32).
	MagicNumber = 0x314d5053
	// Version is the current container version.
	Version = 1

	// rawHeaderWords is the number of uint64 words before the first array.
	rawHeaderWords = 3
)

var (
	// ErrTruncated is returned when the input ends inside a field.
	ErrTruncated = errors.New("persistence: truncated input")
	// ErrCorrupt is returned when array lengths disagree with the header.
	ErrCorrupt = errors.New("persistence: corrupt matrix")

	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrCompression    = errors.New("unknown compression")
)

// ContainerHeader is the fixed 32-byte header of the container layout.
type ContainerHeader struct {
	Magic       uint32
	Version     uint16
	Compression Compression
	_           uint8
	RawSize     uint64 // length of the raw payload
	PayloadSize uint64 // length of the stored, possibly compressed, payload
	Checksum    uint32 // CRC32C of the raw payload
	_           uint32
}

const containerHeaderSize = 32
