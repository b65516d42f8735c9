package genome

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneMax scores a genome by its decoded value.
type oneMax struct{}

func (oneMax) Decode(bits []uint8) float64       { return BinaryFraction(bits) }
func (oneMax) Fitness(phenotype float64) float64 { return phenotype }

func newTestFactory(t *testing.T, length int, policy CrossoverPolicy, seed int64) *Factory {
	t.Helper()
	f, err := NewFactory(length, policy, oneMax{}, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return f
}

func assertBinary(t *testing.T, g *Genome, length int) {
	t.Helper()
	bits := g.Bits()
	if len(bits) != length {
		t.Fatalf("Expected %d bits, got %d", length, len(bits))
	}
	for i, b := range bits {
		if b > 1 {
			t.Errorf("Bit %d is %d, expected 0 or 1", i, b)
		}
	}
}

func TestRandomGenomeShape(t *testing.T) {
	f := newTestFactory(t, 32, SinglePoint, 42)

	for i := 0; i < 50; i++ {
		assertBinary(t, f.Random(), 32)
	}
}

func TestRandomGenomeUsesBothValues(t *testing.T) {
	f := newTestFactory(t, 256, Uniform, 7)

	ones := 0
	for _, b := range f.Random().Bits() {
		ones += int(b)
	}
	// 256 fair coin flips landing outside [64, 192] is vanishingly unlikely.
	if ones < 64 || ones > 192 {
		t.Errorf("Expected roughly half ones, got %d/256", ones)
	}
}

func TestNewCopiesInitialBits(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	initial := []uint8{1, 0, 1, 1}

	g := f.New(initial)
	initial[0] = 0

	assert.Equal(t, []uint8{1, 0, 1, 1}, g.Bits(), "genome must not alias caller slice")
}

func TestNewSubstitutesMalformedBits(t *testing.T) {
	var logs bytes.Buffer
	f := newTestFactory(t, 8, TwoPoint, 3)
	f.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	cases := map[string][]uint8{
		"short":      {1, 0, 1},
		"long":       {1, 0, 1, 0, 1, 0, 1, 0, 1},
		"non-binary": {1, 0, 2, 0, 1, 0, 1, 0},
	}
	for name, initial := range cases {
		t.Run(name, func(t *testing.T) {
			logs.Reset()
			g := f.New(initial)
			assertBinary(t, g, 8)
			assert.Contains(t, logs.String(), "level=WARN")
		})
	}
}

func TestNewNilIsRandomWithoutWarning(t *testing.T) {
	var logs bytes.Buffer
	f := newTestFactory(t, 8, TwoPoint, 3)
	f.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	assertBinary(t, f.New(nil), 8)
	assert.Empty(t, logs.String())
}

func TestStrictRejectsMalformedBits(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)

	_, err := f.Strict([]uint8{1, 0})
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = f.Strict([]uint8{1, 0, 3, 1})
	assert.ErrorIs(t, err, ErrInvalidBit)

	g, err := f.Strict([]uint8{0, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 1, 1, 0}, g.Bits())
}

func TestNewFactoryValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewFactory(0, SinglePoint, oneMax{}, rng)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewFactory(8, CrossoverPolicy(99), oneMax{}, rng)
	assert.ErrorIs(t, err, ErrUnsupportedCrossover)

	_, err = NewFactory(8, Uniform, nil, rng)
	assert.ErrorIs(t, err, ErrNilProblem)
}

func TestMutateFlipsEveryBit(t *testing.T) {
	f := newTestFactory(t, 6, SinglePoint, 1)
	g := f.New([]uint8{1, 0, 0, 1, 1, 0})

	g.Mutate()
	assert.Equal(t, []uint8{0, 1, 1, 0, 0, 1}, g.Bits())

	g.Mutate()
	assert.Equal(t, []uint8{1, 0, 0, 1, 1, 0}, g.Bits(), "mutate twice must be identity")
}

func TestMutateIsInvolutionOnRandomGenomes(t *testing.T) {
	f := newTestFactory(t, 40, Uniform, 11)
	for i := 0; i < 20; i++ {
		g := f.Random()
		before := g.Bits()
		g.Mutate()
		g.Mutate()
		if !bytes.Equal(before, g.Bits()) {
			t.Fatalf("Double mutation changed genome: %v -> %v", before, g.Bits())
		}
	}
}

func TestAllOnesDecodesToOne(t *testing.T) {
	f := newTestFactory(t, 8, SinglePoint, 1)
	g := f.New([]uint8{1, 1, 1, 1, 1, 1, 1, 1})

	assert.Equal(t, 1.0, g.Phenotype())
	assert.Equal(t, 1.0, g.Fitness())
}

func TestBinaryFraction(t *testing.T) {
	assert.Equal(t, 0.0, BinaryFraction([]uint8{0, 0, 0, 0}))
	assert.InDelta(t, 5.0/15.0, BinaryFraction([]uint8{0, 1, 0, 1}), 1e-12)
	assert.InDelta(t, 8.0/15.0, BinaryFraction([]uint8{1, 0, 0, 0}), 1e-12)
	assert.Equal(t, 0.0, BinaryFraction(nil))
}

func TestFitnessTracksWrites(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	g := f.New([]uint8{0, 0, 0, 0})
	assert.Equal(t, 0.0, g.Fitness())

	require.NoError(t, g.SetBit(0, 1))
	assert.InDelta(t, 8.0/15.0, g.Fitness(), 1e-12)
}

func TestSetBitValidation(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	g := f.New([]uint8{0, 1, 0, 1})

	assert.ErrorIs(t, g.SetBit(1, 2), ErrInvalidBit)
	assert.ErrorIs(t, g.SetBit(4, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.SetBit(-1, 1), ErrIndexOutOfRange)
	assert.Equal(t, []uint8{0, 1, 0, 1}, g.Bits(), "failed writes must not modify the genome")

	v, err := g.Bit(3)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
	_, err = g.Bit(4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSetRangeValidation(t *testing.T) {
	f := newTestFactory(t, 6, SinglePoint, 1)
	g := f.New([]uint8{0, 0, 0, 0, 0, 0})

	require.NoError(t, g.SetRange(2, []uint8{1, 1, 1}))
	assert.Equal(t, []uint8{0, 0, 1, 1, 1, 0}, g.Bits())

	err := g.SetRange(0, []uint8{1, 5, 1})
	assert.ErrorIs(t, err, ErrInvalidBit)
	assert.Equal(t, []uint8{0, 0, 1, 1, 1, 0}, g.Bits(), "rejected range write must be atomic")

	assert.ErrorIs(t, g.SetRange(4, []uint8{1, 1, 1}), ErrRangeLength)
	assert.ErrorIs(t, g.SetRange(7, nil), ErrIndexOutOfRange)

	seg, err := g.Range(2, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 1, 1}, seg)

	_, err = g.Range(4, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCloneIsIndependent(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	g := f.New([]uint8{1, 0, 1, 0})

	c := g.Clone()
	c.Mutate()

	assert.Equal(t, []uint8{1, 0, 1, 0}, g.Bits())
	assert.Equal(t, []uint8{0, 1, 0, 1}, c.Bits())
	assert.Equal(t, g.CrossoverPolicy(), c.CrossoverPolicy())
}

func TestCompareByFitness(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	low := f.New([]uint8{0, 0, 0, 1})
	high := f.New([]uint8{1, 0, 0, 0})

	assert.True(t, low.Less(high))
	assert.True(t, high.Greater(low))
	assert.False(t, low.Equal(high))
	assert.Equal(t, -1, Compare(low, high))
	assert.Equal(t, 1, Compare(high, low))
}

// flatScore gives every genome the same fitness.
type flatScore struct{}

func (flatScore) Decode(bits []uint8) float64 { return BinaryFraction(bits) }
func (flatScore) Fitness(float64) float64      { return 1 }

func TestEqualFitnessComparesEqual(t *testing.T) {
	f, err := NewFactory(4, SinglePoint, flatScore{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	a := f.New([]uint8{1, 1, 0, 0})
	b := f.New([]uint8{0, 0, 1, 1})
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, Compare(a, b))
}

func TestHammingDistance(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	a := f.New([]uint8{1, 0, 1, 0})
	b := f.New([]uint8{1, 1, 1, 1})

	d, err := a.HammingDistance(b)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	short := newTestFactory(t, 3, SinglePoint, 1).Random()
	_, err = a.HammingDistance(short)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestString(t *testing.T) {
	f := newTestFactory(t, 4, SinglePoint, 1)
	s := f.New([]uint8{1, 1, 1, 1}).String()

	if !strings.HasPrefix(s, "1111 ") {
		t.Errorf("Expected bit prefix, got %q", s)
	}
	if !strings.Contains(s, "fitness=1.000000") {
		t.Errorf("Expected fitness in %q", s)
	}
}
