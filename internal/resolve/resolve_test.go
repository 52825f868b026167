package resolve

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/structure"
	"github.com/san-kum/tgsim/internal/world"
)

type collector struct {
	bodies []world.Body
}

func (c *collector) Own(b world.Body) { c.bodies = append(c.bodies, b) }

// flakyWorld accepts the first `accept` insertions and fails afterwards.
type flakyWorld struct {
	*world.Memory
	accept int
}

func (f *flakyWorld) Insert(spec world.BodySpec) (world.Body, error) {
	if f.accept == 0 {
		return nil, errors.New("engine full")
	}
	f.accept--
	return f.Memory.Insert(spec)
}

// stickyWorld refuses to remove anything.
type stickyWorld struct {
	*flakyWorld
}

var errStuck = errors.New("body stuck")

func (s *stickyWorld) Remove(b world.Body) error { return errStuck }

func boxSpec(t *testing.T) *buildspec.BuildSpec {
	t.Helper()
	box, err := buildspec.NewBoxInfo(buildspec.BoxConfig{Width: 1, Height: 2, Friction: 1})
	require.NoError(t, err)
	spec := buildspec.New()
	require.NoError(t, spec.AddBuilder("box", box))
	return spec
}

func twoPairs(t *testing.T, secondTag string) *structure.Structure {
	t.Helper()
	s := structure.New()
	a := s.AddNode(1, 0, 0)
	b := s.AddNode(3, 0, 0)
	require.NoError(t, s.AddRotation(geom.Vec3{}, geom.UnitY, math.Pi/2))
	require.NoError(t, s.AddPair(a, b, "box"))

	c := s.AddNode(1, 0, 0)
	d := s.AddNode(3, 0, 0)
	require.NoError(t, s.AddRotation(geom.Vec3{}, geom.UnitY, math.Pi/2))
	require.NoError(t, s.AddPair(c, d, secondTag))
	return s
}

func TestPlan_AppliesAccumulatedRotation(t *testing.T) {
	si := New(twoPairs(t, "box"), boxSpec(t))

	specs, err := si.Plan()
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.True(t, specs[0].From.ApproxEqual(geom.V(0, 0, -1), 1e-9), "first pair from = %v", specs[0].From)
	assert.True(t, specs[0].To.ApproxEqual(geom.V(0, 0, -3), 1e-9), "first pair to = %v", specs[0].To)

	// two quarter turns, not one
	assert.True(t, specs[1].From.ApproxEqual(geom.V(-1, 0, 0), 1e-9), "second pair from = %v", specs[1].From)
	assert.True(t, specs[1].To.ApproxEqual(geom.V(-3, 0, 0), 1e-9), "second pair to = %v", specs[1].To)

	for _, bs := range specs {
		assert.Equal(t, "box", bs.Tag)
		assert.Equal(t, 1.0, bs.Width)
		assert.Equal(t, 2.0, bs.Height)
	}
}

func TestBuildInto_UnknownTagInsertsNothing(t *testing.T) {
	w := world.NewMemory(nil, geom.Vec3{})
	owner := &collector{}
	si := New(twoPairs(t, "ramp"), boxSpec(t))

	err := si.BuildInto(owner, w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, buildspec.ErrUnknownTag))

	var pe *PairError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Pair)
	assert.Equal(t, "ramp", pe.Tag)

	assert.Empty(t, w.Bodies())
	assert.Empty(t, owner.bodies)
}

func TestBuildInto_InsertsInOrder(t *testing.T) {
	w := world.NewMemory(nil, geom.Vec3{})
	owner := &collector{}

	require.NoError(t, New(twoPairs(t, "box"), boxSpec(t)).BuildInto(owner, w))

	require.Len(t, owner.bodies, 2)
	require.Len(t, w.Bodies(), 2)
	assert.Less(t, owner.bodies[0].ID(), owner.bodies[1].ID())
	assert.True(t, owner.bodies[1].Position().ApproxEqual(geom.V(-2, 0, 0), 1e-9))
}

func TestBuildInto_RollsBackOnWorldFailure(t *testing.T) {
	w := &flakyWorld{Memory: world.NewMemory(nil, geom.Vec3{}), accept: 1}
	owner := &collector{}

	err := New(twoPairs(t, "box"), boxSpec(t)).BuildInto(owner, w)
	require.Error(t, err)

	assert.Empty(t, w.Bodies(), "partial structure left in world")
	assert.Empty(t, owner.bodies)
}

func TestBuildInto_ReportsFailedRollback(t *testing.T) {
	w := &stickyWorld{&flakyWorld{Memory: world.NewMemory(nil, geom.Vec3{}), accept: 1}}
	owner := &collector{}

	err := New(twoPairs(t, "box"), boxSpec(t)).BuildInto(owner, w)
	require.Error(t, err)

	var pe *PairError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Pair)
	assert.ErrorIs(t, err, errStuck)
	assert.Contains(t, err.Error(), "rollback body")
	assert.Empty(t, owner.bodies)
}

func TestPlan_MoveAfterRotation(t *testing.T) {
	s := twoPairs(t, "box")
	before, err := New(s, boxSpec(t)).Plan()
	require.NoError(t, err)

	offset := geom.V(10, 0, 0)
	s.Move(offset)
	after, err := New(s, boxSpec(t)).Plan()
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, after[i].From.ApproxEqual(before[i].From.Add(offset), 1e-9),
			"pair %d from %v -> %v", i, before[i].From, after[i].From)
		assert.True(t, after[i].To.ApproxEqual(before[i].To.Add(offset), 1e-9),
			"pair %d to %v -> %v", i, before[i].To, after[i].To)
	}
}

func TestPlan_RequiresInputs(t *testing.T) {
	_, err := New(nil, buildspec.New()).Plan()
	assert.Error(t, err)
}

func TestPlan_EmptyStructure(t *testing.T) {
	specs, err := New(structure.New(), buildspec.New()).Plan()
	require.NoError(t, err)
	assert.Empty(t, specs)
}
