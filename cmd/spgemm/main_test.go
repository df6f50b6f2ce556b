package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spgemm/persistence"
	"github.com/hupe1980/spgemm/sparse"
	"github.com/hupe1980/spgemm/testutil"
	"github.com/hupe1980/spgemm/workload"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_GenerateMultiplyVerify(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csr")
	b := filepath.Join(dir, "b.csr")
	c := filepath.Join(dir, "c.csr")
	want := filepath.Join(dir, "want.csr")

	out, err := run(t, "generate", a, "--rows", "50", "--cols", "30", "--nnz", "200", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "50x30 nnz=200")
	_, err = run(t, "generate", b, "--rows", "30", "--cols", "40", "--nnz", "150", "--seed", "2", "--compression", "zstd")
	require.NoError(t, err)

	out, err = run(t, "multiply", a, b, c, "--engine", "heap", "--compression", "lz4")
	require.NoError(t, err)
	assert.Contains(t, out, "C: 50x40")

	ma, err := persistence.LoadCSR(context.Background(), a)
	require.NoError(t, err)
	mb, err := persistence.LoadCSR(context.Background(), b)
	require.NoError(t, err)
	require.NoError(t, persistence.SaveCSR(context.Background(), want, testutil.ReferenceMultiply(ma, mb)))

	out, err = run(t, "verify", want, c, "--tol", "1e-3")
	require.NoError(t, err)
	assert.Contains(t, out, "Pass: Results are equal")

	out, err = run(t, "info", c)
	require.NoError(t, err)
	assert.Contains(t, out, "50x40")
	assert.Contains(t, out, "simd: isa=")
}

func TestCLI_VerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	x := filepath.Join(dir, "x.csr")
	y := filepath.Join(dir, "y.csr")
	require.NoError(t, persistence.SaveCSR(context.Background(), x, sparse.FromDense([][]float32{{1, 0}, {0, 2}})))
	require.NoError(t, persistence.SaveCSR(context.Background(), y, sparse.FromDense([][]float32{{1, 0}, {0, 3}})))

	out, err := run(t, "verify", x, y)
	require.ErrorIs(t, err, errNotEqual)
	assert.Contains(t, out, "Mismatch")

	_, err = run(t, "verify", x, y, "--tol", "2")
	require.NoError(t, err)
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("engine: bogus\nworkers: 2\n"), 0o600))
	a := filepath.Join(dir, "a.csr")
	_, err := run(t, "generate", a, "--rows", "4", "--cols", "4", "--nnz", "6")
	require.NoError(t, err)

	_, err = run(t, "--config", cfg, "multiply", a, a, filepath.Join(dir, "c.csr"))
	require.Error(t, err)

	// The flag overrides the file.
	_, err = run(t, "--config", cfg, "--engine", "dense", "multiply", a, a, filepath.Join(dir, "c.csr"))
	require.NoError(t, err)
}

func TestCLI_Bench(t *testing.T) {
	dir := t.TempDir()
	rng := testutil.NewRNG(testutil.DefaultSeed)
	a := testutil.RandomCSR(rng, 40, 40, 160, 0)
	b := testutil.RandomCSR(rng, 40, 40, 160, 0)
	ctx := context.Background()
	require.NoError(t, persistence.SaveCSR(ctx, filepath.Join(dir, "a.csr"), a))
	require.NoError(t, persistence.SaveCSR(ctx, filepath.Join(dir, "b.csr"), b))

	desc := workload.Description{
		KernelName: "SparseMMHeapAccum",
		Inputs: map[string]workload.MatrixDesc{
			workload.InputA: workload.Describe("a.csr", a),
			workload.InputB: workload.Describe("b.csr", b),
		},
		Outputs: map[string]workload.MatrixDesc{
			workload.OutputC: {FileName: "c.csr"},
		},
	}
	data, err := json.Marshal(desc)
	require.NoError(t, err)
	descPath := filepath.Join(dir, "workload.json")
	require.NoError(t, os.WriteFile(descPath, data, 0o600))

	reportPath := filepath.Join(dir, "report.json")
	out, err := run(t, "bench", descPath, "--repeat", "2", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "SparseMMHeapAccum: mean")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report workload.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 2, report.Timings[workload.PhaseMultiply].N)

	c, err := persistence.LoadCSR(ctx, filepath.Join(dir, "c.csr"))
	require.NoError(t, err)
	require.NoError(t, sparse.Compare(testutil.ReferenceMultiply(a, b), c, 1e-3))
	assert.Equal(t, c.NNZ(), report.Outputs[workload.OutputC].NNZ)
}

func TestOpenStore(t *testing.T) {
	_, err := openStore(context.Background(), "ftp://host/x")
	require.Error(t, err)

	_, err = openStore(context.Background(), "minio://localhost:9000/")
	require.Error(t, err)

	s, err := openStore(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, s)
}
