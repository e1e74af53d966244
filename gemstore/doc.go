// Package gemstore reads gem decks from and writes orders to a
// blobstore.BlobStore.
//
// A deck is a JSON array of records:
//
//	[{"sides":{"0":"我们","1":"we"},"unknown_facets":["我","们"]}]
//
// Names ending in ".zst" are zstd compressed and names ending in ".lz4" are
// LZ4 frames. Ids are assigned in file order starting at 0; LoadAll
// continues numbering across files in argument order.
//
// # Orders
//
// CommitOrder writes an OrderManifest under "orders/" and then points
// CURRENT at it. Backed by s3.DDBCommitStore the pointer update is a
// conditional write, so two runs committing at once cannot both win.
package gemstore
