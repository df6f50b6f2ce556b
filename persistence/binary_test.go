package persistence

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spgemm/sparse"
	"github.com/hupe1980/spgemm/testutil"
)

func TestWriteCSR_Layout(t *testing.T) {
	m := sparse.FromDense([][]float32{{2, 10}, {0, 12}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSR(&buf, m))

	le := binary.LittleEndian
	data := buf.Bytes()
	// 3 header words, then 8+3*8 offsets, 8+3*4 columns, 8+3*4 values.
	require.Len(t, data, 24+32+20+20)

	assert.Equal(t, uint64(2), le.Uint64(data[0:]))
	assert.Equal(t, uint64(2), le.Uint64(data[8:]))
	assert.Equal(t, uint64(3), le.Uint64(data[16:]))

	assert.Equal(t, uint64(3), le.Uint64(data[24:]))
	assert.Equal(t, uint64(2), le.Uint64(data[40:]))
	assert.Equal(t, uint64(3), le.Uint64(data[48:]))

	assert.Equal(t, uint64(3), le.Uint64(data[56:]))
	assert.Equal(t, uint32(1), le.Uint32(data[68:]))

	assert.Equal(t, uint64(3), le.Uint64(data[76:]))
	assert.Equal(t, float32(12), math.Float32frombits(le.Uint32(data[92:])))
}

func TestReadCSR_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(testutil.DefaultSeed)
	tests := map[string]*sparse.CSR{
		"empty":   sparse.NewCSR(0, 0),
		"no-nnz":  sparse.NewCSR(5, 7),
		"random":  testutil.RandomCSR(rng, 120, 80, 900, 0),
		"special": sparse.FromDense([][]float32{{float32(math.Inf(1)), -0.5}, {float32(math.SmallestNonzeroFloat32), 0}}),
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSR(&buf, m))
			raw := append([]byte(nil), buf.Bytes()...)

			got, err := ReadCSR(&buf)
			require.NoError(t, err)
			assert.True(t, m.Equal(got))
			assert.Equal(t, 0, buf.Len())

			var again bytes.Buffer
			require.NoError(t, WriteCSR(&again, got))
			assert.Equal(t, raw, again.Bytes())
		})
	}
}

func TestReadCSR_Truncated(t *testing.T) {
	m := sparse.FromDense([][]float32{{1, 0, 2}, {0, 3, 0}})
	var buf bytes.Buffer
	require.NoError(t, WriteCSR(&buf, m))
	data := buf.Bytes()

	for n := 0; n < len(data); n++ {
		_, err := ReadCSR(bytes.NewReader(data[:n]))
		require.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", n)
	}
}

// rawCSR hand-encodes the raw layout without any structural checks. Every
// value is 1.
func rawCSR(rows, cols uint64, offsets []uint64, colIdx []uint32) []byte {
	le := binary.LittleEndian
	nnz := uint64(len(colIdx))
	var buf bytes.Buffer
	for _, v := range []uint64{rows, cols, nnz, uint64(len(offsets))} {
		_ = binary.Write(&buf, le, v)
	}
	_ = binary.Write(&buf, le, offsets)
	_ = binary.Write(&buf, le, nnz)
	_ = binary.Write(&buf, le, colIdx)
	_ = binary.Write(&buf, le, nnz)
	values := make([]float32, nnz)
	for i := range values {
		values[i] = 1
	}
	_ = binary.Write(&buf, le, values)
	return buf.Bytes()
}

func TestReadCSR_Corrupt(t *testing.T) {
	m := sparse.FromDense([][]float32{{1, 0, 2}, {0, 3, 0}})
	le := binary.LittleEndian

	patch := func(off int, v uint64) []byte {
		var buf bytes.Buffer
		require.NoError(t, WriteCSR(&buf, m))
		data := buf.Bytes()
		le.PutUint64(data[off:], v)
		return data
	}

	tests := map[string][]byte{
		"offsets length":  patch(24, 4),
		"nnz":             patch(16, 2),
		"last offset":     patch(24+8+16, 2),
		"offset past nnz": patch(24+8+8, 9),
		"huge rows":       patch(0, math.MaxUint64),
		"first offset":    patch(24+8, 1),

		"offsets decrease":      rawCSR(3, 4, []uint64{0, 3, 1, 3}, []uint32{0, 1, 2}),
		"columns unsorted":      rawCSR(3, 4, []uint64{0, 2, 3, 3}, []uint32{3, 1, 2}),
		"duplicate column":      rawCSR(3, 4, []uint64{0, 2, 3, 3}, []uint32{1, 1, 2}),
		"column out of range":   rawCSR(3, 4, []uint64{0, 1, 2, 3}, []uint32{0, 1, 9}),
		"mixed structure flaws": rawCSR(3, 4, []uint64{0, 3, 1, 3}, []uint32{3, 1, 9}),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSR(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
