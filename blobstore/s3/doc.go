// Package s3 provides Amazon S3 implementations of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("gems/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	loader := gemstore.New(store)
//
// # Commits
//
// S3 has no compare-and-swap for overwrites, so DDBCommitStore keeps pointer
// files such as CURRENT in DynamoDB and writes every other blob to S3. Two
// writers racing on the same pointer get ErrConcurrentModification instead
// of silently overwriting each other.
package s3
