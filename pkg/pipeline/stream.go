package pipeline

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
	"datamorph/pkg/transform"
)

// StreamSource is the lazy DataSource. It wraps a single-use input stream
// plus an ordered list of deferred steps. Filter/TransformFunc/Transform only
// record a step and return a new wrapper sharing the same stream and the same
// consumed cell; no I/O happens before ToRows.
//
// Because the stream can be read only once, forks of one StreamSource share
// one consumed flag: exactly one fork may run ToRows. Every later or
// concurrently losing call fails with a state error and performs no I/O.
type StreamSource struct {
	rc     io.ReadCloser
	format Format
	steps  []step

	// consumed is shared by reference across every fork of this source.
	consumed *atomic.Bool
}

type step struct {
	description string
	apply       func([]*rows.Row) []*rows.Row
}

// NewStreamSource wraps rc, which will be parsed with the parser for format
// when the terminal call runs. rc is closed by ToRows regardless of outcome.
func NewStreamSource(rc io.ReadCloser, format Format) (*StreamSource, error) {
	if rc == nil {
		return nil, dataerr.Input("input stream must not be nil")
	}
	if _, err := parserFor(format); err != nil {
		return nil, err
	}
	return &StreamSource{rc: rc, format: format, consumed: new(atomic.Bool)}, nil
}

// fork returns a new wrapper sharing the stream and consumed cell, with one
// extra step appended.
func (s *StreamSource) fork(st step) *StreamSource {
	steps := make([]step, len(s.steps), len(s.steps)+1)
	copy(steps, s.steps)
	return &StreamSource{
		rc:       s.rc,
		format:   s.format,
		steps:    append(steps, st),
		consumed: s.consumed,
	}
}

// Filter records a deferred filter step.
func (s *StreamSource) Filter(pred func(*rows.Row) bool) DataSource {
	return s.fork(step{
		description: "Filter",
		apply: func(in []*rows.Row) []*rows.Row {
			kept := make([]*rows.Row, 0, len(in))
			for _, r := range in {
				if pred(r) {
					kept = append(kept, r)
				}
			}
			return kept
		},
	})
}

// TransformFunc records a deferred per-row mutation step. fn receives a copy
// of each row.
func (s *StreamSource) TransformFunc(fn func(*rows.Row)) DataSource {
	return s.fork(step{
		description: "Consumer Transform",
		apply: func(in []*rows.Row) []*rows.Row {
			out := make([]*rows.Row, len(in))
			for i, r := range in {
				c := r.Copy()
				fn(c)
				out[i] = c
			}
			return out
		},
	})
}

// Transform records a deferred operation-chain step.
func (s *StreamSource) Transform(t *transform.Transform) DataSource {
	return s.fork(step{
		description: fmt.Sprintf("Transform Object: %d operations", t.Len()),
		apply: func(in []*rows.Row) []*rows.Row {
			out := make([]*rows.Row, len(in))
			for i, r := range in {
				out[i] = t.Apply(r)
			}
			return out
		},
	})
}

// ToRows runs the terminal materialization exactly once:
//
//  1. Atomically transition the shared consumed cell; a second or
//     concurrently losing caller gets a state error and no I/O happens.
//  2. Parse the stream in batch mode.
//  3. Fold every deferred step over the parsed rows, in registration order.
//  4. Close the stream unconditionally.
func (s *StreamSource) ToRows() ([]*rows.Row, error) {
	if !s.consumed.CompareAndSwap(false, true) {
		return nil, dataerr.State("input stream already consumed; construct a new pipeline")
	}
	defer func() {
		if err := s.rc.Close(); err != nil {
			log.Printf("pipeline: close input stream: %v", err)
		}
	}()

	p, err := parserFor(s.format)
	if err != nil {
		return nil, err
	}
	out, err := p.ParseReader(s.rc)
	if err != nil {
		return nil, err
	}
	for _, st := range s.steps {
		out = st.apply(out)
	}
	return out, nil
}

// StepDescriptions lists the registered deferred steps in order.
func (s *StreamSource) StepDescriptions() []string {
	out := make([]string, len(s.steps))
	for i, st := range s.steps {
		out[i] = fmt.Sprintf("Step %d: %s", i+1, st.description)
	}
	return out
}

// StepCount returns the number of registered deferred steps.
func (s *StreamSource) StepCount() int { return len(s.steps) }

// Consumed reports whether the terminal operation already ran on this source
// or any of its forks.
func (s *StreamSource) Consumed() bool { return s.consumed.Load() }

// Format returns the format the stream will be parsed as.
func (s *StreamSource) Format() Format { return s.format }
