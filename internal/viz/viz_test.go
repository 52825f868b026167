package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/tgsim/internal/config"
	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/experiment"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/storage"
	"github.com/san-kum/tgsim/internal/world"
)

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)

	if !c.IsSet(0, 0) || !c.IsSet(7, 7) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot at (1, 0)")
	}
	if c.Grid[0][0] != 0x2801 || c.Grid[1][3] != 0x2880 {
		t.Errorf("unexpected runes %U %U", c.Grid[0][0], c.Grid[1][3])
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear left dots behind")
	}
	if got := strings.Count(c.String(), "\n"); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(5, 5)
	c.DrawLine(0, 0, 9, 9)
	for i := 0; i < 10; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot %d missing", i)
		}
	}
}

func TestViewport_Project(t *testing.T) {
	c := NewCanvas(10, 5)
	v := Viewport{MinX: -10, MinZ: -10, MaxX: 10, MaxZ: 10}

	tests := []struct {
		p    geom.Vec3
		x, y int
	}{
		{geom.V(-10, 0, 10), 0, 0},
		{geom.V(10, 0, -10), 19, 19},
		{geom.V(-10, 0, -10), 0, 19},
		{geom.V(10, 99, 10), 19, 0},
	}
	for _, tt := range tests {
		x, y := v.Project(c, tt.p)
		if x != tt.x || y != tt.y {
			t.Errorf("Project(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestFit(t *testing.T) {
	specs := []world.BodySpec{{
		Shape: world.ShapeBox, From: geom.V(-10, 0, 0), To: geom.V(10, 0, 0),
		Width: 2, Height: 2,
	}}
	v := Fit(specs, 1)

	if v.MinX != -11 || v.MaxX != 11 {
		t.Errorf("x range = [%v, %v], want [-11, 11]", v.MinX, v.MaxX)
	}
	if v.MaxX-v.MinX != v.MaxZ-v.MinZ {
		t.Error("viewport is not square")
	}

	empty := Fit(nil, 3)
	if empty.MinX != -3 || empty.MaxZ != 3 {
		t.Errorf("empty fit = %+v", empty)
	}
}

func craterRun(t *testing.T) (*experiment.Experiment, []storage.BodyRecord, []controllers.Sample) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	e, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return e, e.Bodies(), e.Recorder().Samples()
}

func TestSummaries(t *testing.T) {
	_, bodies, trace := craterRun(t)

	table := BodyTable(bodies)
	if strings.Count(table, "crater") != 4 || !strings.Contains(table, "probe") {
		t.Errorf("body table missing rows:\n%s", table)
	}
	if !strings.Contains(table, "10x10") {
		t.Errorf("body table missing box size:\n%s", table)
	}

	metrics := MetricsTable(map[string]float64{"zeta": 2, "alpha": 1})
	if strings.Index(metrics, "alpha") > strings.Index(metrics, "zeta") {
		t.Errorf("metrics not sorted:\n%s", metrics)
	}

	if chart := HeightChart(trace, 40, 5); !strings.Contains(chart, "height over") {
		t.Errorf("unexpected chart:\n%s", chart)
	}
	if chart := HeightChart(nil, 40, 5); !strings.Contains(chart, "no trace") {
		t.Errorf("unexpected empty chart %q", chart)
	}

	drawing := TopDown(bodies, trace, 30, 15)
	if strings.Count(drawing, "\n") != 15 {
		t.Errorf("top down view has wrong height:\n%s", drawing)
	}
	if strings.TrimRight(strings.ReplaceAll(drawing, "\n", ""), "⠀") == "" {
		t.Error("top down view is blank")
	}
}

func newLive(t *testing.T, duration float64) *Live {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Duration = duration
	e, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	ss, err := e.Start()
	if err != nil {
		t.Fatal(err)
	}
	return NewLive("crater", e.World(), ss, e.Recorder(), cfg.Dt, cfg.Duration)
}

func TestLive_Ticks(t *testing.T) {
	l := newLive(t, 0.1)

	if l.Init() == nil {
		t.Fatal("Init returned no command")
	}
	for i := 0; i < 3; i++ {
		l.Update(TickMsg{})
	}
	if l.session.Steps() != 3 {
		t.Errorf("expected 3 steps, got %d", l.session.Steps())
	}
	if len(l.heights) != 3 {
		t.Errorf("expected 3 height samples, got %d", len(l.heights))
	}

	for i := 0; i < 10; i++ {
		l.Update(TickMsg{})
	}
	if !l.Done() || l.Err() != nil {
		t.Errorf("done = %v, err = %v", l.Done(), l.Err())
	}
	if l.session.Steps() != 6 {
		t.Errorf("run should stop at 6 frames, got %d", l.session.Steps())
	}
	if len(l.world.Bodies()) != 0 {
		t.Error("finishing should tear the scene down")
	}
	if !strings.Contains(l.View(), "DONE") {
		t.Error("view does not report completion")
	}
}

func TestLive_Keys(t *testing.T) {
	l := newLive(t, 5)

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if l.running {
		t.Fatal("space should pause")
	}
	l.Update(TickMsg{})
	if l.session.Steps() != 0 {
		t.Error("paused view advanced on tick")
	}

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if l.session.Steps() != 1 {
		t.Errorf("n should advance one frame, got %d", l.session.Steps())
	}
	if !strings.Contains(l.View(), "PAUSED") {
		t.Error("view does not show pause")
	}

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if !l.Done() {
		t.Error("quitting should close the session")
	}
}
