package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spgemm/internal/fs"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing.csr")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "inputs/a.csr", []byte("matrix a")))
	require.NoError(t, store.Put(ctx, "inputs/b.csr", []byte("matrix b")))
	require.NoError(t, store.Put(ctx, "outputs/c.csr", []byte("matrix c")))

	data, err := store.Get(ctx, "inputs/a.csr")
	require.NoError(t, err)
	assert.Equal(t, "matrix a", string(data))

	require.NoError(t, store.Put(ctx, "inputs/a.csr", []byte("replaced")))
	data, err = store.Get(ctx, "inputs/a.csr")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	names, err := store.List(ctx, "inputs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"inputs/a.csr", "inputs/b.csr"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.Delete(ctx, "inputs/b.csr"))
	require.NoError(t, store.Delete(ctx, "inputs/b.csr"))
	_, err = store.Get(ctx, "inputs/b.csr")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore_RejectsEscapingNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	assert.Error(t, store.Put(context.Background(), "../evil", []byte("x")))
}

func TestLocalStore_FailedPutLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 2})
	store := NewLocalStoreFS(dir, ffs)

	err := store.Put(context.Background(), "c.csr", []byte("too long"))
	require.ErrorIs(t, err, fs.ErrInjected)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = os.Stat(filepath.Join(dir, "c.csr"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
