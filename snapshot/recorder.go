package snapshot

import (
	"errors"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
)

// MaxFrameSize bounds the length prefix ReadAll accepts. A frame holds one
// generation, so anything larger is taken as corruption.
const MaxFrameSize = 64 << 20

// Recorder writes a frame for every Interval-th generation of a run.
type Recorder struct {
	Source       Source
	W            io.Writer
	Interval     int // Record every N generations; <= 0 records only the final frame
	LastRecorded int // Last generation written, -1 before the first frame
	Frames       int
}

// NewRecorder creates a recorder writing frames of src to w.
func NewRecorder(src Source, w io.Writer, interval int) *Recorder {
	return &Recorder{
		Source:       src,
		W:            w,
		Interval:     interval,
		LastRecorded: -1,
	}
}

// ShouldRecord reports whether generation falls on the recording interval
// and has not been written yet. Generation 0 is on every interval.
func (r *Recorder) ShouldRecord(generation int) bool {
	if r.Interval <= 0 {
		return false
	}
	return generation > r.LastRecorded && generation%r.Interval == 0
}

// Record writes the source's current generation if it is due.
func (r *Recorder) Record(generation int) error {
	if !r.ShouldRecord(generation) {
		return nil
	}
	return r.write()
}

// RecordFinal writes the current generation regardless of the interval,
// unless it was already the last frame written.
func (r *Recorder) RecordFinal() error {
	if r.Source.Generation() == r.LastRecorded {
		return nil
	}
	return r.write()
}

func (r *Recorder) write() error {
	s := Capture(r.Source)
	if _, err := r.W.Write(EncodeFrame(s)); err != nil {
		return fmt.Errorf("failed to write snapshot of generation %d: %w", s.Generation, err)
	}
	r.LastRecorded = s.Generation
	r.Frames++
	return nil
}

// ReadAll decodes every frame in r until EOF.
func ReadAll(r io.Reader) ([]*Snapshot, error) {
	var (
		out    []*Snapshot
		header = make([]byte, flatbuffers.SizeUint32)
	)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("%w: frame %d header: %w", ErrCorrupt, len(out), err)
		}

		size := flatbuffers.GetUint32(header)
		if size > MaxFrameSize {
			return out, fmt.Errorf("%w: frame %d length %d exceeds %d", ErrCorrupt, len(out), size, MaxFrameSize)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return out, fmt.Errorf("%w: frame %d body: %w", ErrCorrupt, len(out), err)
		}

		s, err := Decode(body)
		if err != nil {
			return out, fmt.Errorf("frame %d: %w", len(out), err)
		}
		out = append(out, s)
	}
}
