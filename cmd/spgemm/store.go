package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/spgemm/blobstore"
	"github.com/hupe1980/spgemm/blobstore/minio"
	"github.com/hupe1980/spgemm/blobstore/s3"
)

// openStore resolves a store location:
//
//	s3://bucket/prefix              AWS default credential chain
//	minio://host:port/bucket/prefix MINIO_ACCESS_KEY, MINIO_SECRET_KEY
//	anything else                   a local directory
func openStore(ctx context.Context, location string) (blobstore.Store, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		if err == nil && u.Scheme == "file" {
			location = u.Path
		}
		return blobstore.NewLocalStore(location), nil
	}

	switch u.Scheme {
	case "s3":
		store, err := s3.New(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio", "minios":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("store %q: missing bucket", location)
		}
		client, err := miniogo.New(u.Host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: u.Scheme == "minios",
		})
		if err != nil {
			return nil, err
		}
		return minio.NewStore(client, bucket, prefix), nil
	default:
		return nil, fmt.Errorf("store %q: unsupported scheme %q", location, u.Scheme)
	}
}
