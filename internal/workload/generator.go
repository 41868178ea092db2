package workload

import (
	"crypto/rand"
	"io"
	"strings"
)

// SeedSize is the length of the random block each invocation starts from.
const SeedSize = 64

// Generator burns CPU by running a digest chain over random input.
type Generator struct {
	chain     []*Digest
	intensity Intensity
	rounds    int
	source    io.Reader
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces crypto/rand as the seed source.
func WithSource(r io.Reader) Option {
	return func(g *Generator) {
		g.source = r
	}
}

// NewGenerator builds a generator for the given chain and intensity.
func NewGenerator(chain []*Digest, intensity Intensity, opts ...Option) *Generator {
	g := &Generator{
		chain:     chain,
		intensity: intensity,
		rounds:    intensity.Rounds(),
		source:    rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run performs one invocation and returns the final digest. Callers only care
// about the time it takes.
func (g *Generator) Run() []byte {
	data := make([]byte, SeedSize)
	// A short read leaves zero bytes in the tail, which is still a valid workload.
	_, _ = io.ReadFull(g.source, data)

	for i := 0; i < g.rounds; i++ {
		for _, d := range g.chain {
			data = d.Sum(data)
		}
	}
	return data
}

// Rounds is the number of chain applications per invocation.
func (g *Generator) Rounds() int {
	return g.rounds
}

// Intensity returns the configured tier.
func (g *Generator) Intensity() Intensity {
	return g.intensity
}

// Operations is rounds times chain length.
func (g *Generator) Operations() int {
	return g.rounds * len(g.chain)
}

// ChainName renders the chain as "sha256 > md5 > ...".
func (g *Generator) ChainName() string {
	names := make([]string, len(g.chain))
	for i, d := range g.chain {
		names[i] = d.Name
	}
	return strings.Join(names, " > ")
}
