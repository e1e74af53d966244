// Package blobstore provides the storage abstraction behind gem decks and
// committed orders.
//
// BlobStore is a flat namespace of named blobs. Names may contain forward
// slashes ("orders/1234.json"); backends map them to keys or paths.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and dry runs
//   - LocalStore: local filesystem, memory-mapped reads, atomic rename writes
//   - s3.Store: Amazon S3 via aws-sdk-go-v2, multipart uploads
//   - s3.DDBCommitStore: S3 plus DynamoDB conditional writes for pointer files
//   - minio.Store: any S3-compatible server via minio-go
//
// # Reading
//
// View hands the complete contents of a blob to a callback, without copying
// when the blob is Mappable:
//
//	err := blobstore.View(ctx, st, "deck.json", func(data []byte) error {
//	    return json.Unmarshal(data, &deck)
//	})
package blobstore
