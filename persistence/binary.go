package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/hupe1980/spgemm/internal/conv"
	"github.com/hupe1980/spgemm/internal/fs"
	"github.com/hupe1980/spgemm/resource"
	"github.com/hupe1980/spgemm/sparse"
)

// readChunk bounds a single allocation while reading an array, so a forged
// length fails on the short read instead of on allocation.
const readChunk = 1 << 16

// Writer writes matrices in the raw layout.
type Writer struct {
	w io.Writer
}

// NewWriter creates a raw-layout writer. If rc is non-nil, writes are
// charged against its IO budget.
func NewWriter(ctx context.Context, w io.Writer, rc *resource.Controller) *Writer {
	return &Writer{w: rc.LimitWriter(ctx, w)}
}

// WriteCSR writes m.
func (bw *Writer) WriteCSR(m *sparse.CSR) error {
	nnz := m.NNZ()
	header := [rawHeaderWords]uint64{uint64(m.Rows), uint64(m.Cols), uint64(nnz)}
	if _, err := bw.w.Write(asBytes(header[:])); err != nil {
		return err
	}

	offsets := make([]uint64, len(m.RowOffsets))
	for i, off := range m.RowOffsets {
		offsets[i] = uint64(off)
	}
	if err := writeArray(bw.w, offsets); err != nil {
		return fmt.Errorf("row offsets: %w", err)
	}
	if err := writeArray(bw.w, m.ColIndices[:nnz]); err != nil {
		return fmt.Errorf("column indices: %w", err)
	}
	if err := writeArray(bw.w, m.Values[:nnz]); err != nil {
		return fmt.Errorf("values: %w", err)
	}
	return nil
}

func writeArray[T word](w io.Writer, s []T) error {
	n := [1]uint64{uint64(len(s))}
	if _, err := w.Write(asBytes(n[:])); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	_, err := w.Write(asBytes(s))
	return err
}

// Reader reads matrices in the raw layout.
type Reader struct {
	r io.Reader
}

// NewReader creates a raw-layout reader. If rc is non-nil, reads are
// charged against its IO budget.
func NewReader(ctx context.Context, r io.Reader, rc *resource.Controller) *Reader {
	return &Reader{r: rc.LimitReader(ctx, r)}
}

// ReadCSR reads one matrix.
func (br *Reader) ReadCSR() (*sparse.CSR, error) {
	var header [rawHeaderWords]uint64
	if _, err := io.ReadFull(br.r, asBytes(header[:])); err != nil {
		return nil, truncated("header", err)
	}
	rows, err := conv.Uint64ToInt(header[0])
	if err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrCorrupt, err)
	}
	cols, err := conv.Uint64ToInt(header[1])
	if err != nil {
		return nil, fmt.Errorf("%w: cols: %v", ErrCorrupt, err)
	}
	nnz, err := conv.Uint64ToInt(header[2])
	if err != nil {
		return nil, fmt.Errorf("%w: nnz: %v", ErrCorrupt, err)
	}
	if rows == math.MaxInt {
		return nil, fmt.Errorf("%w: rows %d", ErrCorrupt, rows)
	}

	offsets, err := readArray[uint64](br.r, "row offsets", rows+1)
	if err != nil {
		return nil, err
	}
	colIdx, err := readArray[uint32](br.r, "column indices", nnz)
	if err != nil {
		return nil, err
	}
	values, err := readArray[float32](br.r, "values", nnz)
	if err != nil {
		return nil, err
	}

	m := &sparse.CSR{
		Rows:       rows,
		Cols:       cols,
		RowOffsets: make([]int, len(offsets)),
		ColIndices: colIdx,
		Values:     values,
	}
	for i, off := range offsets {
		if off > uint64(nnz) {
			return nil, fmt.Errorf("%w: row offset %d is %d, nnz %d", ErrCorrupt, i, off, nnz)
		}
		m.RowOffsets[i] = int(off)
	}
	if m.RowOffsets[rows] != nnz {
		return nil, fmt.Errorf("%w: last row offset %d, nnz %d", ErrCorrupt, m.RowOffsets[rows], nnz)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, nil
}

// readArray reads a length-prefixed array that must hold exactly want
// elements.
func readArray[T word](r io.Reader, field string, want int) ([]T, error) {
	var n [1]uint64
	if _, err := io.ReadFull(r, asBytes(n[:])); err != nil {
		return nil, truncated(field+" length", err)
	}
	if n[0] != uint64(want) {
		return nil, fmt.Errorf("%w: %s length %d, want %d", ErrCorrupt, field, n[0], want)
	}

	out := make([]T, 0, min(want, readChunk))
	for len(out) < want {
		k := min(want-len(out), readChunk)
		out = slices.Grow(out, k)
		if _, err := io.ReadFull(r, asBytes(out[len(out):len(out)+k])); err != nil {
			return nil, truncated(field, err)
		}
		out = out[:len(out)+k]
	}
	return out, nil
}

func truncated(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncated, field)
	}
	return err
}

// WriteCSR writes m to w in the raw layout.
func WriteCSR(w io.Writer, m *sparse.CSR) error {
	return NewWriter(context.Background(), w, nil).WriteCSR(m)
}

// ReadCSR reads a raw-layout matrix from r.
func ReadCSR(r io.Reader) (*sparse.CSR, error) {
	return NewReader(context.Background(), r, nil).ReadCSR()
}

// SaveToFile writes through writeFunc into a temporary file next to
// filename and renames it into place.
func SaveToFile(fsys fs.FileSystem, filename string, writeFunc func(io.Writer) error) error {
	if fsys == nil {
		fsys = fs.Default
	}
	dir := filepath.Dir(filename)
	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", filepath.Base(filename), time.Now().UnixNano()))

	tmp, err := fsys.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = fsys.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile opens filename and passes a buffered reader to readFunc.
func LoadFromFile(fsys fs.FileSystem, filename string, readFunc func(*bufio.Reader) error) error {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.OpenFile(filename, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}
