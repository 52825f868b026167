// Package structure holds the declarative description of a model's geometry:
// nodes addressed by index, rotation entries, and tagged node pairs.
//
// A Structure knows nothing about physics. Each pair names two nodes and a
// tag, and a [buildspec.BuildSpec] later decides what body the tag becomes.
// Rotations accumulate: every pair is stamped with the composition of all
// rotations recorded before it, in recording order. Move is a rigid shift of
// the built geometry and is applied after those rotations.
package structure

import (
	"errors"
	"fmt"

	"github.com/san-kum/tgsim/internal/geom"
)

var (
	// ErrNodeIndex indicates a pair referencing a node that does not exist.
	ErrNodeIndex = errors.New("structure: node index out of range")

	// ErrEmptyTag indicates a pair without a tag.
	ErrEmptyTag = errors.New("structure: empty tag")

	// ErrZeroAxis indicates a rotation about a zero-length axis.
	ErrZeroAxis = errors.New("structure: rotation axis has zero length")
)

// Rotation is a recorded rotation of Angle radians about the line through
// Pivot along Axis.
type Rotation struct {
	Pivot geom.Vec3
	Axis  geom.Vec3
	Angle float64
}

func (r Rotation) Transform() geom.Transform {
	return geom.Rotation(r.Pivot, r.Axis, r.Angle)
}

// Pair asks for one body spanning nodes From and To, built by whatever is
// registered for Tag. Rotations counts the rotation entries recorded before
// the pair and Transform is their composition.
type Pair struct {
	From      int
	To        int
	Tag       string
	Rotations int
	Transform geom.Transform
}

type Structure struct {
	nodes     []geom.Vec3
	shifts    []geom.Vec3 // accumulated Move offsets, per node
	rotations []Rotation
	pairs     []Pair
	running   geom.Transform
}

func New() *Structure {
	return &Structure{
		nodes:     make([]geom.Vec3, 0),
		shifts:    make([]geom.Vec3, 0),
		rotations: make([]Rotation, 0),
		pairs:     make([]Pair, 0),
		running:   geom.Identity(),
	}
}

// AddNode appends a node and returns its index.
func (s *Structure) AddNode(x, y, z float64) int {
	s.nodes = append(s.nodes, geom.V(x, y, z))
	s.shifts = append(s.shifts, geom.Vec3{})
	return len(s.nodes) - 1
}

// AddRotation records a rotation and folds it into the running transform
// applied to every pair added afterwards.
func (s *Structure) AddRotation(pivot, axis geom.Vec3, angle float64) error {
	if axis.IsZero() {
		return ErrZeroAxis
	}
	r := Rotation{Pivot: pivot, Axis: axis, Angle: angle}
	s.rotations = append(s.rotations, r)
	s.running = s.running.Then(r.Transform())
	return nil
}

// AddPair connects two existing nodes under tag.
func (s *Structure) AddPair(from, to int, tag string) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}
	if tag == "" {
		return fmt.Errorf("%w: pair (%d, %d)", ErrEmptyTag, from, to)
	}
	s.pairs = append(s.pairs, Pair{
		From:      from,
		To:        to,
		Tag:       tag,
		Rotations: len(s.rotations),
		Transform: s.running,
	})
	return nil
}

// Move translates everything built from the nodes added so far by offset,
// after any rotation their pairs carry. Nodes added later keep the
// coordinates they are given.
func (s *Structure) Move(offset geom.Vec3) {
	for i := range s.shifts {
		s.shifts[i] = s.shifts[i].Add(offset)
	}
}

func (s *Structure) checkIndex(i int) error {
	if i < 0 || i >= len(s.nodes) {
		return fmt.Errorf("%w: %d (have %d nodes)", ErrNodeIndex, i, len(s.nodes))
	}
	return nil
}

func (s *Structure) NodeCount() int { return len(s.nodes) }
func (s *Structure) PairCount() int { return len(s.pairs) }

func (s *Structure) Node(i int) (geom.Vec3, error) {
	if err := s.checkIndex(i); err != nil {
		return geom.Vec3{}, err
	}
	return s.nodes[i].Add(s.shifts[i]), nil
}

// Nodes returns every node with the moves applied to it so far.
func (s *Structure) Nodes() []geom.Vec3 {
	out := make([]geom.Vec3, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Add(s.shifts[i])
	}
	return out
}

func (s *Structure) Pairs() []Pair {
	out := make([]Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

func (s *Structure) Rotations() []Rotation {
	out := make([]Rotation, len(s.rotations))
	copy(out, s.rotations)
	return out
}

// Tags returns the distinct pair tags in order of first use.
func (s *Structure) Tags() []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, p := range s.pairs {
		if !seen[p.Tag] {
			seen[p.Tag] = true
			tags = append(tags, p.Tag)
		}
	}
	return tags
}

// Segment returns the endpoints of pair i: the declared nodes under the
// pair's accumulated rotation, then shifted by every later Move.
func (s *Structure) Segment(i int) (geom.Vec3, geom.Vec3, error) {
	if i < 0 || i >= len(s.pairs) {
		return geom.Vec3{}, geom.Vec3{}, fmt.Errorf("structure: pair index %d out of range (have %d pairs)", i, len(s.pairs))
	}
	p := s.pairs[i]
	if err := s.checkIndex(p.From); err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}
	if err := s.checkIndex(p.To); err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}
	from := p.Transform.Apply(s.nodes[p.From]).Add(s.shifts[p.From])
	to := p.Transform.Apply(s.nodes[p.To]).Add(s.shifts[p.To])
	return from, to, nil
}
