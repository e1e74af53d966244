// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO itself and other S3-compatible servers (Ceph, Garage,
// SeaweedFS) and needs no AWS SDK configuration.
//
//	store, err := minio.Dial(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "gems",
//	})
//	gems, err := gemstore.New(store).Load(ctx, "decks/hsk1.json")
package minio
