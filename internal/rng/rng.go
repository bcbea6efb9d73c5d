// Package rng provides the random sources used by the lottery.
package rng

import (
	"math/rand/v2"
	"sync"

	"lukechampine.com/frand"
)

// Source yields uniform integers in [0, n). n is always > 0.
type Source interface {
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by a cryptographically strong generator.
// It is safe for concurrent use.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	return frand.Intn(n)
}

// SeededSource is a deterministic Source for tests and reproducible replays.
type SeededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic Source. Equal seeds give equal sequences.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Shuffle permutes s in place with a Fisher-Yates pass driven by src.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
