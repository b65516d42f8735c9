// Package snapshot exports generations of an evolution run as FlatBuffers
// frames so that plotting and analysis tools can consume them without
// linking against the engine.
package snapshot

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/google/uuid"

	"github.com/signalnine/bitevolve/genome"
	"github.com/signalnine/bitevolve/snapshot/snapshotfb"
)

// ErrCorrupt is returned when a buffer or frame cannot be decoded.
var ErrCorrupt = errors.New("snapshot: corrupt buffer")

// minBufferSize is a root offset plus an empty vtable reference.
const minBufferSize = 8

// Individual is one genome of a captured generation.
type Individual struct {
	Bits      []uint8
	Phenotype float64
	Fitness   float64
}

// Snapshot is the exported view of a single generation.
type Snapshot struct {
	RunID       uuid.UUID
	Generation  int
	BestFitness float64
	Individuals []Individual
}

// Source is anything that exposes a run's identity and current population.
// *evolution.EvolutionEngine satisfies it.
type Source interface {
	RunID() uuid.UUID
	Generation() int
	Population() []*genome.Genome
}

// Capture copies the current population of src into a Snapshot.
func Capture(src Source) *Snapshot {
	pop := src.Population()
	s := &Snapshot{
		RunID:       src.RunID(),
		Generation:  src.Generation(),
		Individuals: make([]Individual, len(pop)),
	}
	for i, g := range pop {
		fitness := g.Fitness()
		s.Individuals[i] = Individual{
			Bits:      g.Bits(),
			Phenotype: g.Phenotype(),
			Fitness:   fitness,
		}
		if i == 0 || fitness > s.BestFitness {
			s.BestFitness = fitness
		}
	}
	return s
}

// Encode serializes s as a standalone FlatBuffers buffer.
func Encode(s *Snapshot) []byte {
	builder, root := build(s)
	builder.Finish(root)
	return builder.FinishedBytes()
}

// EncodeFrame serializes s with a little-endian uint32 length prefix, the
// unit written by Recorder and read back by ReadAll.
func EncodeFrame(s *Snapshot) []byte {
	builder, root := build(s)
	builder.FinishSizePrefixed(root)
	return builder.FinishedBytes()
}

func build(s *Snapshot) (*flatbuffers.Builder, flatbuffers.UOffsetT) {
	builder := flatbuffers.NewBuilder(1024)

	// Vectors and strings must exist before the tables that reference them.
	individualOffsets := make([]flatbuffers.UOffsetT, len(s.Individuals))
	for i, ind := range s.Individuals {
		bits := builder.CreateByteVector(ind.Bits)
		snapshotfb.IndividualStart(builder)
		snapshotfb.IndividualAddBits(builder, bits)
		snapshotfb.IndividualAddPhenotype(builder, ind.Phenotype)
		snapshotfb.IndividualAddFitness(builder, ind.Fitness)
		individualOffsets[i] = snapshotfb.IndividualEnd(builder)
	}

	snapshotfb.GenerationStartIndividualsVector(builder, len(individualOffsets))
	for i := len(individualOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(individualOffsets[i])
	}
	individuals := builder.EndVector(len(individualOffsets))

	runID := builder.CreateString(s.RunID.String())

	snapshotfb.GenerationStart(builder)
	snapshotfb.GenerationAddRunId(builder, runID)
	snapshotfb.GenerationAddGeneration(builder, int64(s.Generation))
	snapshotfb.GenerationAddBestFitness(builder, s.BestFitness)
	snapshotfb.GenerationAddIndividuals(builder, individuals)
	return builder, snapshotfb.GenerationEnd(builder)
}

// Decode parses a buffer produced by Encode.
func Decode(buf []byte) (s *Snapshot, err error) {
	if len(buf) < minBufferSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(buf))
	}
	// The generated accessors index the buffer without bounds checks of
	// their own.
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	gen := snapshotfb.GetRootAsGeneration(buf, 0)

	runID := uuid.Nil
	if raw := gen.RunId(); len(raw) > 0 {
		runID, err = uuid.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: run id: %w", ErrCorrupt, err)
		}
	}

	s = &Snapshot{
		RunID:       runID,
		Generation:  int(gen.Generation()),
		BestFitness: gen.BestFitness(),
		Individuals: make([]Individual, gen.IndividualsLength()),
	}
	ind := new(snapshotfb.Individual)
	for i := range s.Individuals {
		if !gen.Individuals(ind, i) {
			return nil, fmt.Errorf("%w: individual %d", ErrCorrupt, i)
		}
		s.Individuals[i] = Individual{
			Bits:      append([]uint8(nil), ind.BitsBytes()...),
			Phenotype: ind.Phenotype(),
			Fitness:   ind.Fitness(),
		}
	}
	return s, nil
}
