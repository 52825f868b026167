package model_test

import (
	"fmt"

	"github.com/san-kum/tgsim/internal/buildspec"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/model"
	"github.com/san-kum/tgsim/internal/resolve"
	"github.com/san-kum/tgsim/internal/structure"
	"github.com/san-kum/tgsim/internal/world"
)

// journal records the order of everything that happens during a test.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

type spy struct {
	name     string
	log      *journal
	setups   int
	steps    []float64
	teardown int
	onStep   func(m *model.Model)
}

func (s *spy) OnSetup(m *model.Model) {
	s.setups++
	s.log.add("%s:setup", s.name)
}

func (s *spy) OnStep(m *model.Model, dt float64) {
	s.steps = append(s.steps, dt)
	s.log.add("%s:step", s.name)
	if s.onStep != nil {
		s.onStep(m)
	}
}

func (s *spy) OnTeardown(m *model.Model) {
	s.teardown++
	s.log.add("%s:teardown", s.name)
}

// tracingWorld wraps bodies so their Step calls land in the journal.
type tracingWorld struct {
	*world.Memory
	log *journal
}

type tracingBody struct {
	world.Body
	log     *journal
	advance float64
}

func (b *tracingBody) Step(dt float64) {
	b.advance += dt
	b.log.add("body%d:step", b.ID())
	b.Body.Step(dt)
}

func (w *tracingWorld) Insert(spec world.BodySpec) (world.Body, error) {
	b, err := w.Memory.Insert(spec)
	if err != nil {
		return nil, err
	}
	return &tracingBody{Body: b, log: w.log}, nil
}

func (w *tracingWorld) Remove(b world.Body) error {
	if tb, ok := b.(*tracingBody); ok {
		w.log.add("body%d:remove", tb.ID())
		return w.Memory.Remove(tb.Body)
	}
	return w.Memory.Remove(b)
}

func newTracingWorld(log *journal) *tracingWorld {
	return &tracingWorld{Memory: world.NewMemory(nil, geom.Vec3{}), log: log}
}

// blueprint builds `boxes` unit boxes tagged "box"; registerTag false leaves
// the registry empty.
type blueprint struct {
	boxes       int
	registerTag bool
}

func (b blueprint) Blueprint() (*resolve.StructureInfo, error) {
	s := structure.New()
	for i := 0; i < b.boxes; i++ {
		a := s.AddNode(float64(i), 0, 0)
		c := s.AddNode(float64(i), 1, 0)
		if err := s.AddPair(a, c, "box"); err != nil {
			return nil, err
		}
	}
	spec := buildspec.New()
	if b.registerTag {
		box, err := buildspec.NewBoxInfo(buildspec.BoxConfig{Width: 1, Height: 1, Friction: 1})
		if err != nil {
			return nil, err
		}
		if err := spec.AddBuilder("box", box); err != nil {
			return nil, err
		}
	}
	return resolve.New(s, spec), nil
}

type child struct {
	name     string
	log      *journal
	failWith error
	steps    int
}

func (c *child) Setup(w world.World) error {
	c.log.add("%s:setup", c.label())
	return c.failWith
}

func (c *child) Step(dt float64) error {
	c.steps++
	c.log.add("%s:step", c.label())
	return nil
}

func (c *child) Teardown() { c.log.add("%s:teardown", c.label()) }

func (c *child) label() string {
	if c.name == "" {
		return "child"
	}
	return c.name
}

type counter struct {
	models int
	bodies int
}

func (c *counter) VisitModel(m *model.Model)                  { c.models++ }
func (c *counter) VisitBody(owner *model.Model, b world.Body) { c.bodies++ }

func indexOf(entries []string, want string) int {
	for i, e := range entries {
		if e == want {
			return i
		}
	}
	return -1
}
