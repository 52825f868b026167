package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/storage"
	"github.com/san-kum/tgsim/internal/world"
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)
)

func tableStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerCell
	}
	return cell
}

func vec3(x, y, z float64) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", x, y, z)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// BodyTable lists the bodies of a run, one row each.
func BodyTable(bodies []storage.BodyRecord) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("model", "id", "shape", "tag", "from", "to", "size", "density", "friction", "restitution").
		StyleFunc(tableStyle)

	for _, b := range bodies {
		s := b.Spec
		size := num(s.Radius)
		if s.Shape == world.ShapeBox {
			size = num(s.Width) + "x" + num(s.Height)
		}
		t.Row(
			b.Model, strconv.Itoa(b.ID), s.Shape.String(), s.Tag,
			vec3(s.From.X, s.From.Y, s.From.Z), vec3(s.To.X, s.To.Y, s.To.Z),
			size, num(s.Material.Density), num(s.Material.Friction), num(s.Material.Restitution),
		)
	}
	return t.Render()
}

// MetricsTable lists metric values sorted by name.
func MetricsTable(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("metric", "value").
		StyleFunc(tableStyle)
	for _, name := range names {
		t.Row(name, strconv.FormatFloat(metrics[name], 'g', 6, 64))
	}
	return t.Render()
}

// HeightChart plots the height of a trace over time.
func HeightChart(trace []controllers.Sample, width, height int) string {
	if len(trace) == 0 {
		return Subtle.Render("no trace recorded")
	}
	ys := make([]float64, len(trace))
	for i, s := range trace {
		ys[i] = s.Position.Y
	}
	return asciigraph.Plot(ys,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("height over %.2fs", trace[len(trace)-1].Time)),
	)
}

// TopDown draws the bodies of a run from above with the trace as a path.
func TopDown(bodies []storage.BodyRecord, trace []controllers.Sample, width, height int) string {
	c := NewCanvas(width, height)
	specs := make([]world.BodySpec, len(bodies))
	for i, b := range bodies {
		specs[i] = b.Spec
	}
	v := Fit(specs, 5)

	for _, s := range specs {
		c.Body(v, s, s.Center())
	}
	for i := 1; i < len(trace); i++ {
		c.Segment(v, trace[i-1].Position, trace[i].Position)
	}
	return c.String()
}
