// Package export renders stored runs to SVG.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/storage"
	"github.com/san-kum/tgsim/internal/viz"
	"github.com/san-kum/tgsim/internal/world"
)

const (
	background = "#0a0a0a"
	terrainInk = "#00ffff"
	probeInk   = "#ff00ff"
	traceInk   = "#00ff00"
)

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every lit dot of a Braille canvas as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", traceInk)
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// scene maps the ground plane onto a size x size picture, z pointing up.
type scene struct {
	view viz.Viewport
	size float64
}

func (s scene) point(p geom.Vec3) (float64, float64) {
	x := (p.X - s.view.MinX) / (s.view.MaxX - s.view.MinX) * s.size
	y := (s.view.MaxZ - p.Z) / (s.view.MaxZ - s.view.MinZ) * s.size
	return x, y
}

func (s scene) path(pts []geom.Vec3, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		x, y := s.point(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// SceneSVG draws a run from above: every body footprint, with the probe
// in its own colour, and the trace as a path.
func SceneSVG(bodies []storage.BodyRecord, trace []controllers.Sample, size int) string {
	specs := make([]world.BodySpec, len(bodies))
	for i, b := range bodies {
		specs[i] = b.Spec
	}
	s := scene{view: viz.Fit(specs, 5), size: float64(size)}

	var sb strings.Builder
	header(&sb, s.size, s.size)
	for _, b := range bodies {
		ink := terrainInk
		if b.Spec.Shape == world.ShapeSphere {
			ink = probeInk
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1\" data-model=\"%s\" d=\"%s\"/>\n",
			ink, b.Model, s.path(viz.Footprint(b.Spec), true))
	}
	if len(trace) > 1 {
		pts := make([]geom.Vec3, len(trace))
		for i, t := range trace {
			pts[i] = t.Position
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n",
			traceInk, s.path(pts, false))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteRun loads a stored run and writes its scene to w.
func WriteRun(w io.Writer, st *storage.Store, runID string, size int) error {
	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, SceneSVG(bodies, trace, size))
	return err
}
