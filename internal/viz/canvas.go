package viz

import (
	"math"
	"strings"

	"github.com/san-kum/tgsim/internal/chipmunk"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 dots wide
// and Height*4 dots tall; anything outside is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the ground plane onto a canvas seen from above: world x
// runs left to right and world z bottom to top.
type Viewport struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Fit returns a square viewport around every body footprint, padded by margin.
func Fit(specs []world.BodySpec, margin float64) Viewport {
	if len(specs) == 0 {
		return Viewport{-margin, -margin, margin, margin}
	}
	v := Viewport{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, s := range specs {
		for _, p := range Footprint(s) {
			v.MinX, v.MaxX = math.Min(v.MinX, p.X), math.Max(v.MaxX, p.X)
			v.MinZ, v.MaxZ = math.Min(v.MinZ, p.Z), math.Max(v.MaxZ, p.Z)
		}
	}
	cx, cz := (v.MinX+v.MaxX)/2, (v.MinZ+v.MaxZ)/2
	half := math.Max(v.MaxX-v.MinX, v.MaxZ-v.MinZ)/2 + margin
	return Viewport{cx - half, cz - half, cx + half, cz + half}
}

// Project converts a world point to canvas sub-pixels.
func (v Viewport) Project(c *Canvas, p geom.Vec3) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	x := (p.X - v.MinX) / (v.MaxX - v.MinX) * w
	y := (v.MaxZ - p.Z) / (v.MaxZ - v.MinZ) * h
	return int(math.Round(x)), int(math.Round(y))
}

func (c *Canvas) Segment(v Viewport, a, b geom.Vec3) {
	x0, y0 := v.Project(c, a)
	x1, y1 := v.Project(c, b)
	c.DrawLine(x0, y0, x1, y1)
}

func (c *Canvas) Point(v Viewport, p geom.Vec3) {
	c.Set(v.Project(c, p))
}

// Body outlines the ground-plane footprint of a spec, centred on at.
func (c *Canvas) Body(v Viewport, spec world.BodySpec, at geom.Vec3) {
	pts := Footprint(spec)
	shift := at.Sub(spec.Center())
	for i := range pts {
		c.Segment(v, pts[i].Add(shift), pts[(i+1)%len(pts)].Add(shift))
	}
}

// Footprint returns the outline of a spec in the ground plane: a rectangle
// for boxes and rods, a polygon for spheres.
func Footprint(s world.BodySpec) []geom.Vec3 {
	c := s.Center()
	c.Y = 0

	if s.Shape == world.ShapeSphere {
		const n = 16
		pts := make([]geom.Vec3, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / n
			pts[i] = c.Add(geom.V(s.Radius*math.Cos(a), 0, s.Radius*math.Sin(a)))
		}
		return pts
	}

	length, thickness, angle := chipmunk.Footprint(s)
	u := geom.V(math.Cos(angle), 0, math.Sin(angle)).Scale(length / 2)
	n := geom.V(-math.Sin(angle), 0, math.Cos(angle)).Scale(thickness / 2)
	return []geom.Vec3{
		c.Sub(u).Sub(n),
		c.Add(u).Sub(n),
		c.Add(u).Add(n),
		c.Sub(u).Add(n),
	}
}
