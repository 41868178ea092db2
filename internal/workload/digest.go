package workload

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownDigest is returned when a chain names an unregistered algorithm.
var ErrUnknownDigest = errors.New("unknown digest")

// SumFunc hashes data and returns a freshly allocated digest.
type SumFunc func(data []byte) []byte

// Digest describes one hash algorithm usable in a chain.
type Digest struct {
	Name        string
	DisplayName string
	Size        int // output size in bytes
	Sum         SumFunc
}

// Registry holds the digests a chain may reference.
type Registry struct {
	digests map[string]*Digest
	mu      sync.RWMutex
}

var defaultRegistry = NewRegistry()

// DefaultChain mirrors a mixed proof-of-work style pipeline: SHA-256 as in
// Bitcoin, MD5 and SHA-1 as short fast rounds, BLAKE2b and SHA3-256 for variety.
var DefaultChain = []string{"sha256", "md5", "sha1", "blake2b", "sha3-256"}

// NewRegistry creates a registry with all built-in digests.
func NewRegistry() *Registry {
	r := &Registry{
		digests: make(map[string]*Digest),
	}
	r.registerDefaultDigests()
	return r
}

func (r *Registry) registerDefaultDigests() {
	r.Register(&Digest{
		Name:        "sha256",
		DisplayName: "SHA-256",
		Size:        sha256.Size,
		Sum: func(b []byte) []byte {
			h := sha256.Sum256(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "md5",
		DisplayName: "MD5",
		Size:        md5.Size,
		Sum: func(b []byte) []byte {
			h := md5.Sum(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "sha1",
		DisplayName: "SHA-1",
		Size:        sha1.Size,
		Sum: func(b []byte) []byte {
			h := sha1.Sum(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "blake2b",
		DisplayName: "BLAKE2b-512",
		Size:        blake2b.Size,
		Sum: func(b []byte) []byte {
			h := blake2b.Sum512(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "sha3-256",
		DisplayName: "SHA3-256",
		Size:        32,
		Sum: func(b []byte) []byte {
			h := sha3.Sum256(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "blake3",
		DisplayName: "BLAKE3",
		Size:        32,
		Sum: func(b []byte) []byte {
			h := blake3.Sum256(b)
			return h[:]
		},
	})
	r.Register(&Digest{
		Name:        "keccak256",
		DisplayName: "Keccak-256",
		Size:        32,
		Sum: func(b []byte) []byte {
			return ethcrypto.Keccak256(b)
		},
	})
}

// Register adds or replaces a digest.
func (r *Registry) Register(d *Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.digests[d.Name] = d
}

// Lookup returns the digest registered under name.
func (r *Registry) Lookup(name string) (*Digest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.digests[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
	return d, nil
}

// Names lists registered digests in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.digests))
	for name := range r.digests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain resolves an ordered list of names. At least one digest is required.
func (r *Registry) Chain(names []string) ([]*Digest, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrUnknownDigest)
	}
	chain := make([]*Digest, 0, len(names))
	for _, name := range names {
		d, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, d)
	}
	return chain, nil
}

// Lookup resolves a digest from the default registry.
func Lookup(name string) (*Digest, error) {
	return defaultRegistry.Lookup(name)
}

// Names lists the digests of the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

// Chain resolves names against the default registry.
func Chain(names []string) ([]*Digest, error) {
	return defaultRegistry.Chain(names)
}
