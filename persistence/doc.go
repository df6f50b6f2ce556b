// Package persistence stores CSR matrices.
//
// The raw layout is three uint64 header words (rows, cols, nnz) followed by
// three length-prefixed arrays: row offsets as uint64, column indices as
// uint32 and values as float32 bits. All words are little-endian, which is
// the native order on every supported platform, so arrays are moved with a
// single write or read each.
//
// The container layout wraps a raw payload with a magic number, an optional
// LZ4 or Zstandard codec and a CRC32C checksum. Decode and LoadCSR accept
// both layouts.
//
// # Usage
//
//	if err := persistence.SaveCSR(ctx, "c.csr", c,
//		persistence.WithCompression(persistence.CompressionZSTD)); err != nil {
//		return err
//	}
//	c, err := persistence.LoadCSR(ctx, "c.csr")
package persistence
