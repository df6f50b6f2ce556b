// Package blobstore stores persisted matrices and workload files for the
// benchmark runner.
//
// # Built-in Implementations
//
//   - LocalStore: a local directory, written with temp file and rename
//   - MemoryStore: in-process, for tests
//   - s3.Store: Amazon S3, multipart uploads for large matrices
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error   // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
