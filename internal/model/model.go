package model

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/tgsim/internal/resolve"
	"github.com/san-kum/tgsim/internal/world"
)

var (
	// ErrInvalidArgument indicates a rejected step precondition; nothing was changed.
	ErrInvalidArgument = errors.New("model: invalid argument")

	// ErrLifecycle indicates a call that is not allowed in the model's current state.
	ErrLifecycle = errors.New("model: lifecycle violation")
)

type State int

const (
	Uninitialized State = iota
	Active
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case TornDown:
		return "torn down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observer is notified of a model's lifecycle transitions. Observers may
// read the model and drive control state but must not change which bodies
// it owns.
type Observer interface {
	OnSetup(m *Model)
	OnStep(m *Model, dt float64)
	OnTeardown(m *Model)
}

// Blueprint describes the structure a model resolves on setup.
type Blueprint interface {
	Blueprint() (*resolve.StructureInfo, error)
}

// Component is a child stepped by its parent model. *Model satisfies it.
type Component interface {
	Setup(w world.World) error
	Step(dt float64) error
	Teardown()
}

type pendingOp struct {
	observer Observer
	attach   bool
}

type Model struct {
	name      string
	blueprint Blueprint
	state     State
	world     world.World
	bodies    []world.Body
	children  []Component
	observers []Observer
	notifying bool
	pending   []pendingOp
	logger    *slog.Logger
}

// New creates a model. bp may be nil for a model that only groups children.
func New(name string, bp Blueprint) *Model {
	return &Model{
		name:      name,
		blueprint: bp,
		bodies:    make([]world.Body, 0),
		children:  make([]Component, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (m *Model) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l.With("model", m.name)
	}
}

func (m *Model) Name() string       { return m.name }
func (m *Model) State() State       { return m.state }
func (m *Model) World() world.World { return m.world }

// Bodies returns the bodies owned by the model in resolution order.
func (m *Model) Bodies() []world.Body {
	out := make([]world.Body, len(m.bodies))
	copy(out, m.bodies)
	return out
}

func (m *Model) Children() []Component {
	out := make([]Component, len(m.children))
	copy(out, m.children)
	return out
}

// Own takes ownership of a resolved body.
func (m *Model) Own(b world.Body) {
	m.bodies = append(m.bodies, b)
}

// AddChild registers a child component. Children can only be added before setup.
func (m *Model) AddChild(c Component) error {
	if m.state != Uninitialized {
		return fmt.Errorf("%w: add child while %s", ErrLifecycle, m.state)
	}
	if c == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidArgument)
	}
	m.children = append(m.children, c)
	return nil
}

func (m *Model) Setup(w world.World) error {
	if m.state != Uninitialized {
		return fmt.Errorf("%w: setup while %s", ErrLifecycle, m.state)
	}
	if w == nil {
		return fmt.Errorf("%w: nil world", ErrInvalidArgument)
	}

	if m.blueprint != nil {
		info, err := m.blueprint.Blueprint()
		if err != nil {
			return fmt.Errorf("model %s: blueprint: %w", m.name, err)
		}
		if err := info.BuildInto(m, w); err != nil {
			return fmt.Errorf("model %s: %w", m.name, err)
		}
	}

	// Children come up before OnSetup so observers see the whole tree.
	for i, c := range m.children {
		if err := c.Setup(w); err != nil {
			for j := i - 1; j >= 0; j-- {
				m.children[j].Teardown()
			}
			m.release(w)
			return fmt.Errorf("model %s: child %d: %w", m.name, i, err)
		}
	}

	m.world = w
	m.notify(func(o Observer) { o.OnSetup(m) })
	m.state = Active
	m.logger.Debug("setup complete", "bodies", len(m.bodies), "children", len(m.children))
	return nil
}

func (m *Model) Step(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: dt is not positive (%g)", ErrInvalidArgument, dt)
	}
	if m.state != Active {
		return fmt.Errorf("%w: step while %s", ErrLifecycle, m.state)
	}

	m.notify(func(o Observer) { o.OnStep(m, dt) })

	for _, b := range m.bodies {
		b.Step(dt)
	}
	for _, c := range m.children {
		if err := c.Step(dt); err != nil {
			return fmt.Errorf("model %s: %w", m.name, err)
		}
	}
	return nil
}

// Teardown releases everything the model owns. It only acts on an Active
// model; calling it again, or before Setup, does nothing.
func (m *Model) Teardown() {
	if m.state != Active {
		return
	}

	m.notify(func(o Observer) { o.OnTeardown(m) })

	for i := len(m.children) - 1; i >= 0; i-- {
		m.children[i].Teardown()
	}
	m.release(m.world)
	m.world = nil
	m.state = TornDown
	m.logger.Debug("teardown complete")
}

func (m *Model) release(w world.World) {
	for i := len(m.bodies) - 1; i >= 0; i-- {
		if err := w.Remove(m.bodies[i]); err != nil {
			m.logger.Warn("body release failed", "body", m.bodies[i].ID(), "error", err)
		}
	}
	m.bodies = m.bodies[:0]
}

// Attach adds an observer. Attaching the same observer twice has no effect.
func (m *Model) Attach(o Observer) {
	if o == nil {
		return
	}
	if m.notifying {
		m.pending = append(m.pending, pendingOp{observer: o, attach: true})
		return
	}
	m.attach(o)
}

// Detach removes an observer and reports whether it was attached. Inside a
// notification pass the removal is deferred and Detach reports true.
func (m *Model) Detach(o Observer) bool {
	if m.notifying {
		m.pending = append(m.pending, pendingOp{observer: o})
		return true
	}
	return m.detach(o)
}

func (m *Model) Observers() []Observer {
	out := make([]Observer, len(m.observers))
	copy(out, m.observers)
	return out
}

func (m *Model) attach(o Observer) {
	for _, existing := range m.observers {
		if existing == o {
			return
		}
	}
	m.observers = append(m.observers, o)
}

func (m *Model) detach(o Observer) bool {
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Model) notify(fn func(Observer)) {
	m.notifying = true
	for _, o := range m.observers {
		fn(o)
	}
	m.notifying = false

	for _, op := range m.pending {
		if op.attach {
			m.attach(op.observer)
		} else {
			m.detach(op.observer)
		}
	}
	m.pending = m.pending[:0]
}
