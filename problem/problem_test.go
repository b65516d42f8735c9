package problem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/bitevolve/genome"
)

func TestPresetsDecodeBinaryFraction(t *testing.T) {
	bits := []uint8{1, 0, 1, 0}
	for name, p := range Presets {
		if got := p.Decode(bits); math.Abs(got-10.0/15.0) > 1e-12 {
			t.Errorf("%s: expected 10/15, got %f", name, got)
		}
	}
}

func TestOneMaxAllOnes(t *testing.T) {
	p := OneMax{}
	x := p.Decode([]uint8{1, 1, 1, 1, 1, 1, 1, 1})

	assert.Equal(t, 1.0, x)
	assert.Equal(t, 1.0, p.Fitness(x))
}

func TestLinearAndQuadratic(t *testing.T) {
	assert.InDelta(t, 2.5, Linear{Slope: 2, Intercept: 1.5}.Fitness(0.5), 1e-12)
	assert.InDelta(t, 0.25, Quadratic{}.Fitness(0.5), 1e-12)
}

func TestLinearPresetOptimumAtAllZeros(t *testing.T) {
	p, err := Lookup("linear")
	require.NoError(t, err)
	assert.Equal(t, Linear{Slope: -3, Intercept: 7}, p)

	zeros := p.Fitness(p.Decode([]uint8{0, 0, 0, 0, 0, 0, 0, 0}))
	ones := p.Fitness(p.Decode([]uint8{1, 1, 1, 1, 1, 1, 1, 1}))
	assert.Equal(t, 7.0, zeros)
	assert.Equal(t, 4.0, ones)

	// Every other bit pattern of length 4 scores below all zeros.
	for v := 1; v < 16; v++ {
		bits := []uint8{uint8(v >> 3 & 1), uint8(v >> 2 & 1), uint8(v >> 1 & 1), uint8(v & 1)}
		if got := p.Fitness(p.Decode(bits)); got >= zeros {
			t.Errorf("%v scored %f, expected below %f", bits, got, zeros)
		}
	}
}

func TestRecommendedCrossover(t *testing.T) {
	assert.Equal(t, genome.Uniform, RecommendedCrossover("quadratic"))
	assert.Equal(t, genome.Uniform, RecommendedCrossover(" Quadratic"))
	assert.Equal(t, genome.SinglePoint, RecommendedCrossover("onemax"))
	assert.Equal(t, genome.SinglePoint, RecommendedCrossover("linear"))
	assert.Equal(t, genome.SinglePoint, RecommendedCrossover("unknown"))
}

func TestFuncAdapter(t *testing.T) {
	p := Func{Name: "neg", Score: func(x float64) float64 { return -x }}

	assert.Equal(t, -1.0, p.Fitness(p.Decode([]uint8{1, 1})))
	assert.Equal(t, "neg", p.String())
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" OneMax ")
	require.NoError(t, err)
	assert.Equal(t, OneMax{}, p)

	_, err = Lookup("rastrigin")
	assert.ErrorIs(t, err, ErrUnknownProblem)
	assert.Contains(t, err.Error(), "quadratic")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"linear", "onemax", "quadratic"}, Names())
}

func TestPresetsSatisfyGenomeProblem(t *testing.T) {
	var _ genome.Problem = OneMax{}
	var _ genome.Problem = Linear{}
	var _ genome.Problem = Quadratic{}
	var _ genome.Problem = Func{}
}
