// Package arxiv supplies the harness with LaTeX documents: it generates
// random arXiv identifiers, downloads the corresponding e-print archives,
// and extracts their .tex sources.
package arxiv

import (
	"fmt"
	"math/rand"
)

// IDGenerator produces random arXiv identifiers of the form YYMM.NNNNN,
// fixed to papers from 2018. The same seed always yields the same
// sequence, so a failing batch can be replayed.
type IDGenerator struct {
	rng *rand.Rand
}

// NewIDGenerator creates a generator seeded with seed.
func NewIDGenerator(seed int64) *IDGenerator {
	return &IDGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	year := 18
	month := g.rng.Intn(12) + 1
	number := g.rng.Intn(5000)
	return fmt.Sprintf("%02d%02d.%05d", year, month, number)
}
