package workload

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/spgemm/sparse"
)

// Parameter names used by the multiply kernel.
const (
	InputA  = "matrixA"
	InputB  = "matrixB"
	OutputC = "matrixC"
)

// maxEdgeFactorSkew is the allowed difference between nnz/m and the
// declared edge factor of an input.
const maxEdgeFactorSkew = 0.5

var (
	// ErrInvalidDescription is returned for descriptions missing required
	// fields or with inconsistent input metadata.
	ErrInvalidDescription = errors.New("workload: invalid description")
	// ErrMetadataMismatch is returned when a loaded matrix differs from its
	// description.
	ErrMetadataMismatch = errors.New("workload: matrix does not match description")
)

// MatrixDesc describes one persisted matrix.
type MatrixDesc struct {
	FileName   string  `json:"fileName" yaml:"fileName"`
	M          int     `json:"m" yaml:"m"`
	N          int     `json:"n" yaml:"n"`
	NNZ        int     `json:"nnz" yaml:"nnz"`
	EdgeFactor float64 `json:"edgeFactor" yaml:"edgeFactor"`
}

// Describe returns the description of m stored as fileName.
func Describe(fileName string, m *sparse.CSR) MatrixDesc {
	d := MatrixDesc{FileName: fileName, M: m.Rows, N: m.Cols, NNZ: m.NNZ()}
	if m.Rows > 0 {
		d.EdgeFactor = float64(d.NNZ) / float64(m.Rows)
	}
	return d
}

// Matches checks the shape of m against d.
func (d MatrixDesc) Matches(m *sparse.CSR) error {
	if d.M != m.Rows || d.N != m.Cols || d.NNZ != m.NNZ() {
		return fmt.Errorf("%w: %s: described (%d,%d,%d), file has (%d,%d,%d)",
			ErrMetadataMismatch, d.FileName, d.M, d.N, d.NNZ, m.Rows, m.Cols, m.NNZ())
	}
	return nil
}

func (d MatrixDesc) checkMeta(param string) error {
	if d.FileName == "" {
		return fmt.Errorf("%w: %s has no fileName", ErrInvalidDescription, param)
	}
	if d.M < 0 || d.N < 0 || d.NNZ < 0 {
		return fmt.Errorf("%w: %s has a negative dimension", ErrInvalidDescription, param)
	}
	if d.M > 0 && math.Abs(float64(d.NNZ)/float64(d.M)-d.EdgeFactor) > maxEdgeFactorSkew {
		return fmt.Errorf("%w: %s edgeFactor %g is not consistent with nnz/m = %d/%d",
			ErrInvalidDescription, param, d.EdgeFactor, d.NNZ, d.M)
	}
	return nil
}

// Description is a benchmark workload.
type Description struct {
	KernelName string                `json:"kernelName" yaml:"kernelName"`
	Inputs     map[string]MatrixDesc `json:"inputs" yaml:"inputs"`
	Outputs    map[string]MatrixDesc `json:"outputs" yaml:"outputs"`
}

// Validate checks required parameters and input metadata. Output metadata
// is filled in by the run and not checked.
func (d *Description) Validate() error {
	if d.KernelName == "" {
		return fmt.Errorf("%w: kernelName is empty", ErrInvalidDescription)
	}
	for _, p := range []string{InputA, InputB} {
		in, ok := d.Inputs[p]
		if !ok {
			return fmt.Errorf("%w: missing input %s", ErrInvalidDescription, p)
		}
		if err := in.checkMeta(p); err != nil {
			return err
		}
	}
	out, ok := d.Outputs[OutputC]
	if !ok || out.FileName == "" {
		return fmt.Errorf("%w: missing output %s", ErrInvalidDescription, OutputC)
	}
	if _, err := ResolveKernel(d.KernelName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	return nil
}

// Format is the encoding of a description file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a description.
func Parse(data []byte, format Format) (*Description, error) {
	var d Description
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a description file from disk.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFromPath(path))
}
