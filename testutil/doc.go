// Package testutil provides testing utilities for gemgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Synthetic Gems
//
//	rng := testutil.NewRNG(seed)
//	gems := rng.Gems(testutil.GemConfig{Num: 1000, MaxFacets: 6, Vocabulary: 300, Skew: 2})
package testutil
