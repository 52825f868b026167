// Package resolve turns a structure and a build spec into bodies inside a
// world.
//
// Resolution is all or nothing. Every pair is planned before the world is
// touched, so an unknown tag or a bad node index inserts nothing, and a
// world that rejects an insertion half way has the earlier bodies removed
// again. Pairs are processed strictly in insertion order because each one
// carries the rotations accumulated before it.
package resolve

import (
	"errors"
	"fmt"

	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/structure"
	"github.com/san-kum/tgsim/internal/world"
)

// Owner receives each body once it is in the world.
type Owner interface {
	Own(b world.Body)
}

type StructureInfo struct {
	structure *structure.Structure
	spec      *buildspec.BuildSpec
}

func New(s *structure.Structure, spec *buildspec.BuildSpec) *StructureInfo {
	return &StructureInfo{structure: s, spec: spec}
}

// PairError locates a resolution failure.
type PairError struct {
	Pair    int
	Tag     string
	Wrapped error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("resolve: pair %d (%q): %v", e.Pair, e.Tag, e.Wrapped)
}

func (e *PairError) Unwrap() error {
	return e.Wrapped
}

// Plan computes the spec of every body without touching any world.
func (si *StructureInfo) Plan() ([]world.BodySpec, error) {
	if si.structure == nil || si.spec == nil {
		return nil, errors.New("resolve: structure and build spec are required")
	}

	pairs := si.structure.Pairs()
	specs := make([]world.BodySpec, 0, len(pairs))

	for i, p := range pairs {
		builder, err := si.spec.Builder(p.Tag)
		if err != nil {
			return nil, &PairError{Pair: i, Tag: p.Tag, Wrapped: err}
		}
		from, to, err := si.structure.Segment(i)
		if err != nil {
			return nil, &PairError{Pair: i, Tag: p.Tag, Wrapped: err}
		}
		bs, err := builder.Build(from, to)
		if err != nil {
			return nil, &PairError{Pair: i, Tag: p.Tag, Wrapped: err}
		}
		bs.Tag = p.Tag
		specs = append(specs, bs)
	}

	return specs, nil
}

// BuildInto inserts every planned body into w and hands it to owner.
func (si *StructureInfo) BuildInto(owner Owner, w world.World) error {
	specs, err := si.Plan()
	if err != nil {
		return err
	}

	inserted := make([]world.Body, 0, len(specs))
	for i, bs := range specs {
		b, err := w.Insert(bs)
		if err != nil {
			insertErr := &PairError{Pair: i, Tag: bs.Tag, Wrapped: err}
			if rbErr := rollback(w, inserted); rbErr != nil {
				return errors.Join(insertErr, rbErr)
			}
			return insertErr
		}
		inserted = append(inserted, b)
	}

	for _, b := range inserted {
		owner.Own(b)
	}
	return nil
}

// rollback removes bodies newest first. It keeps going past failures and
// reports every body it could not remove.
func rollback(w world.World, bodies []world.Body) error {
	var errs []error
	for i := len(bodies) - 1; i >= 0; i-- {
		if err := w.Remove(bodies[i]); err != nil {
			errs = append(errs, fmt.Errorf("resolve: rollback body %d: %w", bodies[i].ID(), err))
		}
	}
	return errors.Join(errs...)
}
