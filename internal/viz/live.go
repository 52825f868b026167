package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/sim"
	"github.com/san-kum/tgsim/internal/world"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	trailCapacity   = 400
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Live is a bubbletea model that advances a started simulation one frame
// per tick and draws it from above.
type Live struct {
	name     string
	session  *sim.Session
	world    world.World
	recorder *controllers.Recorder
	dt       float64
	duration float64

	canvas   *Canvas
	view     Viewport
	trail    []geom.Vec3
	heights  []float64
	running  bool
	done     bool
	err      error
	showHelp bool
}

// NewLive takes ownership of the session and closes it when the view quits
// or the run ends.
func NewLive(name string, w world.World, ss *sim.Session, rec *controllers.Recorder, dt, duration float64) *Live {
	bodies := w.Bodies()
	specs := make([]world.BodySpec, len(bodies))
	for i, b := range bodies {
		specs[i] = b.Spec()
	}
	return &Live{
		name:     name,
		session:  ss,
		world:    w,
		recorder: rec,
		dt:       dt,
		duration: duration,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		view:     Fit(specs, 5),
		trail:    make([]geom.Vec3, 0, trailCapacity),
		heights:  make([]float64, 0, historyCapacity),
		running:  true,
	}
}

func (l *Live) Init() tea.Cmd {
	return tick()
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			l.finish(nil)
			return l, tea.Quit
		case " ", "space":
			l.running = !l.running
		case "n":
			if !l.running {
				l.step()
			}
		case "?":
			l.showHelp = !l.showHelp
		}
	case TickMsg:
		if l.running {
			l.step()
		}
		if l.done {
			return l, nil
		}
		return l, tick()
	}
	return l, nil
}

func (l *Live) step() {
	if l.done {
		return
	}
	f, err := l.session.Advance(l.dt)
	if err != nil {
		l.finish(err)
		return
	}

	if b := l.recorder.Tracked(); b != nil {
		p := b.Position()
		l.trail = appendCapped(l.trail, p, trailCapacity)
		l.heights = appendCapped(l.heights, p.Y, historyCapacity)
	}

	if f.Time >= l.duration-l.dt/2 {
		l.finish(nil)
	}
}

func (l *Live) finish(err error) {
	if l.done {
		return
	}
	l.done = true
	l.running = false
	l.err = err
	l.session.Close()
}

func appendCapped[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

// Err is the error that stopped the run, if any.
func (l *Live) Err() error { return l.err }

func (l *Live) Done() bool { return l.done }

func (l *Live) draw() {
	l.canvas.Clear()
	for _, b := range l.world.Bodies() {
		l.canvas.Body(l.view, b.Spec(), b.Position())
	}
	for _, p := range l.trail {
		l.canvas.Point(l.view, p)
	}
}

func (l *Live) status() string {
	switch {
	case l.err != nil:
		return Badge(StateFailed)
	case l.done:
		return Badge(StateDone)
	case l.running:
		return Badge(StateRunning)
	default:
		return Badge(StatePaused)
	}
}

func (l *Live) View() string {
	l.draw()

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(l.name)) + "  " + l.status() + "\n\n")
	s.WriteString(metricLine("Time", fmt.Sprintf("%.2fs / %.2fs", l.session.Time(), l.duration)) + "\n")
	s.WriteString(metricLine("Steps", fmt.Sprintf("%d", l.session.Steps())) + "\n")
	s.WriteString(metricLine("Bodies", fmt.Sprintf("%d", len(l.world.Bodies()))) + "\n")
	if b := l.recorder.Tracked(); b != nil {
		p, v := b.Position(), b.Velocity()
		s.WriteString(metricLine("Probe", fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)) + "\n")
		s.WriteString(metricLine("Speed", fmt.Sprintf("%.2f", v.Len())) + "\n")
	}
	s.WriteString("\n" + ProgressBar(l.session.Time()/l.duration, 30) + "\n")

	if len(l.heights) > 1 {
		chart := asciigraph.Plot(l.heights, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("height"))
		s.WriteString("\n" + chart + "\n")
	}
	if l.err != nil {
		s.WriteString("\n" + Alert.Render(l.err.Error()) + "\n")
	}
	s.WriteString(hint.Render("\nspace pause  n step  ? help  q quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(l.canvas.String()),
		Panel.Width(46).Render(s.String()),
	)
	if l.showHelp {
		help := Panel.Render(strings.Join([]string{
			Title.Render("keys"),
			"space  pause or resume",
			"n      advance one frame while paused",
			"?      toggle this help",
			"q      quit",
		}, "\n"))
		return help + "\n" + main
	}
	return main
}
