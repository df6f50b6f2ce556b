// Package s3 provides an S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "matrices/")
//
//	runner := workload.NewRunner(store)
package s3
