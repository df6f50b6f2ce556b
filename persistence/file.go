package persistence

import (
	"bufio"
	"context"
	"io"

	"github.com/hupe1980/spgemm/internal/fs"
	"github.com/hupe1980/spgemm/resource"
	"github.com/hupe1980/spgemm/sparse"
)

type options struct {
	compression Compression
	fs          fs.FileSystem
	resources   *resource.Controller
}

// Option configures SaveCSR and LoadCSR.
type Option func(*options)

// WithCompression stores files in the container layout with codec c.
// CompressionNone, the default, writes the raw layout.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithFileSystem replaces the local file system.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithResourceController charges file IO against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{fs: fs.Default}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// SaveCSR atomically writes m to path.
func SaveCSR(ctx context.Context, path string, m *sparse.CSR, optFns ...Option) error {
	o := applyOptions(optFns)
	return SaveToFile(o.fs, path, func(w io.Writer) error {
		w = o.resources.LimitWriter(ctx, w)
		if o.compression == CompressionNone {
			return WriteCSR(w, m)
		}
		return WriteCompressed(w, m, o.compression)
	})
}

// LoadCSR reads a matrix from path in either layout.
func LoadCSR(ctx context.Context, path string, optFns ...Option) (*sparse.CSR, error) {
	o := applyOptions(optFns)
	var m *sparse.CSR
	err := LoadFromFile(o.fs, path, func(br *bufio.Reader) error {
		var r io.Reader = br
		if o.resources != nil {
			r = bufio.NewReader(o.resources.LimitReader(ctx, br))
		}
		var err error
		m, err = Read(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
