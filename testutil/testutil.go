package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/gemgo/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// GemConfig shapes a synthetic collection.
type GemConfig struct {
	// Num is the number of gems.
	Num int
	// MaxFacets is the upper bound of unknown facets per gem (at least 1).
	MaxFacets int
	// Vocabulary is the number of distinct facet names.
	Vocabulary int
	// Skew biases facet choice toward low-numbered facets when > 1,
	// mimicking the long tail of natural vocabularies.
	Skew int
}

// Facet returns the synthetic facet name for index i.
func Facet(i int) string {
	return fmt.Sprintf("f%04d", i)
}

// Gems generates a deterministic synthetic collection with dense ids.
// Each gem gets between 1 and MaxFacets unique facets and one side.
func (r *RNG) Gems(cfg GemConfig) []model.Gem {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxFacets := max(cfg.MaxFacets, 1)
	vocab := max(cfg.Vocabulary, maxFacets)
	skew := max(cfg.Skew, 1)

	gems := make([]model.Gem, cfg.Num)
	for i := range cfg.Num {
		n := 1 + r.rand.Intn(maxFacets)
		seen := make(map[int]struct{}, n)
		facets := make([]string, 0, n)
		for len(facets) < n {
			f := r.rand.Intn(vocab)
			for range skew - 1 {
				f = min(f, r.rand.Intn(vocab))
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			facets = append(facets, Facet(f))
		}
		gems[i] = model.NewGem(model.GemID(i), map[int]string{0: fmt.Sprintf("gem %d", i)}, facets...)
	}
	return gems
}

// Gems is a convenience wrapper around NewRNG(seed).Gems(cfg).
func Gems(seed int64, cfg GemConfig) []model.Gem {
	return NewRNG(seed).Gems(cfg)
}
