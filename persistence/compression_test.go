package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spgemm/sparse"
	"github.com/hupe1980/spgemm/testutil"
)

func randomMatrix() *sparse.CSR {
	rng := testutil.NewRNG(testutil.DefaultSeed)
	return testutil.RandomCSR(rng, 400, 300, 5000, 0)
}

func TestCompressed_RoundTrip(t *testing.T) {
	m := randomMatrix()
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCompressed(&buf, m, c))

			got, err := ReadCompressed(&buf)
			require.NoError(t, err)
			assert.True(t, m.Equal(got))
		})
	}
}

func TestCompressed_Shrinks(t *testing.T) {
	// A banded matrix compresses well: offsets and columns are regular.
	d := make([][]float32, 256)
	for r := range d {
		d[r] = make([]float32, 256)
		d[r][r] = 1
		if r+1 < 256 {
			d[r][r+1] = 1
		}
	}
	m := sparse.FromDense(d)

	raw, err := Encode(m, CompressionNone)
	require.NoError(t, err)
	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		enc, err := Encode(m, c)
		require.NoError(t, err)
		assert.Less(t, len(enc), len(raw), c.String())

		got, err := Decode(enc)
		require.NoError(t, err)
		assert.True(t, m.Equal(got))
	}
}

func TestDecode_AutoDetect(t *testing.T) {
	m := sparse.FromDense([][]float32{{2, 10}, {0, 12}})

	raw, err := Encode(m, CompressionNone)
	require.NoError(t, err)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))

	zst, err := Encode(m, CompressionZSTD)
	require.NoError(t, err)
	got, err = Decode(zst)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestCompressed_ChecksumMismatch(t *testing.T) {
	m := randomMatrix()
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, m, CompressionNone))
	data := buf.Bytes()

	// Flip a bit inside the stored values.
	data[len(data)-3] ^= 0x10

	_, err := ReadCompressed(bytes.NewReader(data))
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCompressed_BadHeader(t *testing.T) {
	m := sparse.FromDense([][]float32{{1}})
	enc, err := Encode(m, CompressionLZ4)
	require.NoError(t, err)

	badVersion := append([]byte(nil), enc...)
	badVersion[4] = 9
	_, err = ReadCompressed(bytes.NewReader(badVersion))
	assert.ErrorIs(t, err, ErrInvalidVersion)

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	_, err = ReadCompressed(bytes.NewReader(badMagic))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, err = ReadCompressed(bytes.NewReader(enc[:containerHeaderSize-1]))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = ReadCompressed(bytes.NewReader(enc[:len(enc)-1]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrCompression)
}
