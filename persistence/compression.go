package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/spgemm/sparse"
)

// Compression selects the container payload codec.
type Compression uint8

const (
	// CompressionNone stores the raw payload.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses Zstandard.
	CompressionZSTD Compression = 2
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a codec name.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrCompression, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the stored payload and the codec that actually applies.
// Payloads that do not shrink are stored uncompressed.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if len(raw) == 0 {
		return raw, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionNone:
		return raw, CompressionNone, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrCompression, c)
	}

	if len(out) == 0 || len(out) >= len(raw) {
		return raw, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(payload []byte, c Compression, rawSize uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		if uint64(len(payload)) != rawSize {
			return nil, fmt.Errorf("%w: payload %d bytes, raw size %d", ErrCorrupt, len(payload), rawSize)
		}
		return payload, nil
	case CompressionLZ4:
		// LZ4 cannot expand a block by more than 255x.
		if rawSize > 255*uint64(len(payload))+16 {
			return nil, fmt.Errorf("%w: raw size %d for %d byte lz4 payload", ErrCorrupt, rawSize, len(payload))
		}
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return raw, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		raw, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(len(raw)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, c)
	}
}

// WriteCompressed writes m to w in the container layout.
func WriteCompressed(w io.Writer, m *sparse.CSR, c Compression) error {
	var raw bytes.Buffer
	cw := NewChecksumWriter(&raw)
	if err := WriteCSR(cw, m); err != nil {
		return err
	}
	payload, used, err := compress(raw.Bytes(), c)
	if err != nil {
		return err
	}

	header := ContainerHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: used,
		RawSize:     uint64(raw.Len()),
		PayloadSize: uint64(len(payload)),
		Checksum:    cw.Sum(),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadCompressed reads a container-layout matrix from r.
func ReadCompressed(r io.Reader) (*sparse.CSR, error) {
	var header ContainerHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, truncated("container header", err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, header.Version)
	}

	payload, err := io.ReadAll(io.LimitReader(r, int64(header.PayloadSize)))
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) != header.PayloadSize {
		return nil, fmt.Errorf("%w: payload", ErrTruncated)
	}

	raw, err := decompress(payload, header.Compression, header.RawSize)
	if err != nil {
		return nil, err
	}
	if err := verifyChecksum(raw, header.Checksum); err != nil {
		return nil, err
	}
	return ReadCSR(bytes.NewReader(raw))
}

// Read reads a matrix in either layout, detected by the container magic.
func Read(r io.Reader) (*sparse.CSR, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	magic, err := br.Peek(4)
	if err == nil && binary.LittleEndian.Uint32(magic) == MagicNumber {
		return ReadCompressed(br)
	}
	return ReadCSR(br)
}

// Encode returns m in the raw layout for CompressionNone and in the
// container layout otherwise.
func Encode(m *sparse.CSR, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if c == CompressionNone {
		err = WriteCSR(&buf, m)
	} else {
		err = WriteCompressed(&buf, m, c)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data in either layout.
func Decode(data []byte) (*sparse.CSR, error) {
	return Read(bytes.NewReader(data))
}
