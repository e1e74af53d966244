// Package bitmap provides the id sets used by the gem indices.
//
// IDSet wraps a Roaring Bitmap. Roaring keeps ids sorted, so every walk over a
// size bucket or a facet posting list visits gems in ascending id order. The
// selector relies on that order to break weight ties reproducibly.
package bitmap
