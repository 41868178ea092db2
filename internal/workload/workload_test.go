package workload

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestParseIntensity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Intensity
		rounds  int
		wantErr bool
	}{
		{input: "low", want: IntensityLow, rounds: 100},
		{input: "Medium", want: IntensityMedium, rounds: 1000},
		{input: " high ", want: IntensityHigh, rounds: 10000},
		{input: "", want: DefaultIntensity, rounds: 10000},
		{input: "extreme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIntensity(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownIntensity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rounds, got.Rounds())
		})
	}
}

func TestDigestVectors(t *testing.T) {
	t.Parallel()

	vectors := map[string]string{
		"sha256":    "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"md5":       "900150983cd24fb0d6963f7d28e17f72",
		"sha1":      "a9993e364706816aba3e25717850c26c9cd0d89d",
		"sha3-256":  "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
		"keccak256": "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		"blake3":    "6437b3ac38465133ffb63b75273a8db548c558465d79db03fd359c6cd5bd9d85",
		"blake2b": "ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d1" +
			"7d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923",
	}

	for name, want := range vectors {
		d, err := Lookup(name)
		require.NoError(t, err, name)

		sum := d.Sum([]byte("abc"))
		assert.Equal(t, want, hex.EncodeToString(sum), name)
		assert.Len(t, sum, d.Size, name)
	}
}

func TestRegistryChain(t *testing.T) {
	t.Parallel()

	chain, err := Chain(DefaultChain)
	require.NoError(t, err)
	require.Len(t, chain, len(DefaultChain))

	sizes := make(map[int]bool)
	for _, d := range chain {
		sizes[d.Size] = true
	}
	assert.Greater(t, len(sizes), 1, "default chain should mix output sizes")

	_, err = Chain([]string{"sha256", "whirlpool"})
	assert.ErrorIs(t, err, ErrUnknownDigest)

	_, err = Chain(nil)
	assert.ErrorIs(t, err, ErrUnknownDigest)

	assert.Contains(t, Names(), "blake3")
	assert.IsIncreasing(t, Names())
}

func TestGeneratorDeterministicWithFixedSource(t *testing.T) {
	t.Parallel()

	chain, err := Chain(DefaultChain)
	require.NoError(t, err)

	g := NewGenerator(chain, IntensityLow, WithSource(zeroReader{}))
	first := g.Run()
	second := g.Run()

	assert.Equal(t, first, second)
	// Output size is the size of the last digest in the chain.
	assert.Len(t, first, chain[len(chain)-1].Size)
	assert.Equal(t, 100, g.Rounds())
	assert.Equal(t, 500, g.Operations())
	assert.Equal(t, "sha256 > md5 > sha1 > blake2b > sha3-256", g.ChainName())
}

func TestGeneratorRandomSeedVaries(t *testing.T) {
	t.Parallel()

	chain, err := Chain([]string{"sha256"})
	require.NoError(t, err)

	g := NewGenerator(chain, IntensityLow)
	assert.NotEqual(t, g.Run(), g.Run())
}

func BenchmarkGenerator(b *testing.B) {
	chain, err := Chain(DefaultChain)
	require.NoError(b, err)

	for _, intensity := range []Intensity{IntensityLow, IntensityMedium} {
		g := NewGenerator(chain, intensity)
		b.Run(intensity.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = g.Run()
			}
		})
	}
}
