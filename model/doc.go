// Package model defines core types used throughout gemgo.
//
// # Identity Types
//
//   - GemID: Dense, load-order identifier of a gem (uint32)
//
// # Data Types
//
//   - Gem: Display sides plus the set of facets still unknown
//   - Batch: Sorted facet names nominated together in one round
package model
