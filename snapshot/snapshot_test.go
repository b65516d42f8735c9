package snapshot

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/bitevolve/evolution"
	"github.com/signalnine/bitevolve/genome"
	"github.com/signalnine/bitevolve/problem"
)

type fakeSource struct {
	id         uuid.UUID
	generation int
	genomes    []*genome.Genome
}

func (f *fakeSource) RunID() uuid.UUID             { return f.id }
func (f *fakeSource) Generation() int              { return f.generation }
func (f *fakeSource) Population() []*genome.Genome { return f.genomes }

func newFakeSource(t *testing.T, bits ...[]uint8) *fakeSource {
	t.Helper()
	f, err := genome.NewFactory(len(bits[0]), genome.TwoPoint, problem.OneMax{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	src := &fakeSource{id: uuid.New()}
	for _, b := range bits {
		g, err := f.Strict(b)
		require.NoError(t, err)
		src.genomes = append(src.genomes, g)
	}
	return src
}

func TestCapture(t *testing.T) {
	src := newFakeSource(t, []uint8{0, 1}, []uint8{1, 1}, []uint8{1, 0})
	src.generation = 7

	s := Capture(src)

	assert.Equal(t, src.id, s.RunID)
	assert.Equal(t, 7, s.Generation)
	assert.Equal(t, 1.0, s.BestFitness)
	require.Len(t, s.Individuals, 3)
	assert.Equal(t, []uint8{1, 0}, s.Individuals[2].Bits)
	assert.InDelta(t, 2.0/3.0, s.Individuals[2].Phenotype, 1e-12)
	assert.InDelta(t, 1.0/3.0, s.Individuals[0].Fitness, 1e-12)
}

func TestCaptureDoesNotAlias(t *testing.T) {
	src := newFakeSource(t, []uint8{0, 0, 0})

	s := Capture(src)
	src.genomes[0].Mutate()

	assert.Equal(t, []uint8{0, 0, 0}, s.Individuals[0].Bits)
}

func TestEncodeDecode(t *testing.T) {
	src := newFakeSource(t, []uint8{1, 0, 1, 1}, []uint8{0, 0, 0, 1}, []uint8{1, 1, 1, 1})
	src.generation = 12
	want := Capture(src)

	got, err := Decode(Encode(want))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestEncodeDecodeEmptyPopulation(t *testing.T) {
	want := &Snapshot{RunID: uuid.New(), Generation: 3}

	got, err := Decode(Encode(want))
	require.NoError(t, err)

	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, 3, got.Generation)
	assert.Empty(t, got.Individuals)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{1, 2})
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(bytes.Repeat([]byte{0xff}, 16))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRecorderInterval(t *testing.T) {
	src := newFakeSource(t, []uint8{1, 0}, []uint8{0, 1})
	var buf bytes.Buffer
	rec := NewRecorder(src, &buf, 2)

	for gen := 0; gen <= 5; gen++ {
		src.generation = gen
		require.NoError(t, rec.Record(gen))
	}
	assert.Equal(t, 3, rec.Frames)
	assert.Equal(t, 4, rec.LastRecorded)

	require.NoError(t, rec.RecordFinal())
	require.NoError(t, rec.RecordFinal(), "final frame is written once")

	frames, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	for i, want := range []int{0, 2, 4, 5} {
		assert.Equal(t, want, frames[i].Generation)
		assert.Equal(t, src.id, frames[i].RunID)
	}
}

func TestRecorderDisabledInterval(t *testing.T) {
	src := newFakeSource(t, []uint8{1})
	var buf bytes.Buffer
	rec := NewRecorder(src, &buf, 0)

	assert.False(t, rec.ShouldRecord(0))
	require.NoError(t, rec.Record(0))
	assert.Zero(t, buf.Len())

	require.NoError(t, rec.RecordFinal())
	assert.Equal(t, 1, rec.Frames)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorderWriteError(t *testing.T) {
	src := newFakeSource(t, []uint8{1})
	rec := NewRecorder(src, failingWriter{}, 1)

	err := rec.Record(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, -1, rec.LastRecorded)
}

func TestReadAllTruncated(t *testing.T) {
	src := newFakeSource(t, []uint8{1, 1, 0})
	frame := EncodeFrame(Capture(src))

	frames, err := ReadAll(bytes.NewReader(append(frame, frame[:len(frame)-3]...)))

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Len(t, frames, 1)
}

func TestRecorderWithEngine(t *testing.T) {
	config := evolution.DefaultConfig()
	config.PopulationSize = 10
	config.GenomeLength = 6
	config.RandomSeed = 4
	engine, err := evolution.NewEvolutionEngine(config, problem.Quadratic{})
	require.NoError(t, err)

	var buf bytes.Buffer
	rec := NewRecorder(engine, &buf, 3)
	engine.OnGenerationComplete = func(stats evolution.GenerationStats) {
		require.NoError(t, rec.Record(stats.Generation))
	}
	require.NoError(t, engine.Run(context.Background(), 7, false))
	require.NoError(t, rec.RecordFinal())

	frames, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []int{3, 6, 7}, []int{frames[0].Generation, frames[1].Generation, frames[2].Generation})
	for _, f := range frames {
		assert.Len(t, f.Individuals, 10)
		assert.Equal(t, engine.RunID(), f.RunID)
	}
	assert.Equal(t, engine.Best().Fitness(), frames[2].BestFitness)
}

func TestReadAllRejectsOversizedFrame(t *testing.T) {
	src := newFakeSource(t, []uint8{0, 1})
	frame := EncodeFrame(Capture(src))
	stream := append(append([]byte{}, frame...), 0xff, 0xff, 0xff, 0xff)

	frames, err := ReadAll(bytes.NewReader(stream))

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "exceeds")
	assert.Len(t, frames, 1)
}
