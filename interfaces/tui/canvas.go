package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"thoughtgraph/application/visualization"
	"thoughtgraph/interfaces/render"
)

// A terminal cell covers cellWidth x cellHeight layout units; cells are
// about twice as tall as they are wide
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// Glyphs
const (
	nodeGlyph    = '●'
	pinnedGlyph  = '◆'
	hoveredGlyph = '◉'
	edgeGlyph    = '·'
)

type cell struct {
	r     rune
	color string
	faint bool
	bold  bool
}

type styleKey struct {
	color string
	faint bool
	bold  bool
}

// Canvas is a grid of styled terminal cells
type Canvas struct {
	cols, rows int
	cells      []cell
	styles     map[styleKey]lipgloss.Style
}

// NewCanvas creates a blank canvas
func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{
		cols:   cols,
		rows:   rows,
		cells:  make([]cell, cols*rows),
		styles: make(map[styleKey]lipgloss.Style),
	}
}

// Set paints one cell; points outside the canvas are ignored
func (c *Canvas) Set(x, y int, r rune, color string, faint, bold bool) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell{r: r, color: color, faint: faint, bold: bold}
}

// At returns the rune at (x, y), or 0 when blank or outside
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return 0
	}
	return c.cells[y*c.cols+x].r
}

// Line draws a line with Bresenham's algorithm, skipping cells already
// painted so edges never overwrite nodes
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, color string, faint bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	// long lines far off screen are clipped by Set; bound the walk anyway
	for steps := 0; steps < 4*(c.cols+c.rows)+dx-dy; steps++ {
		if c.At(x0, y0) == 0 {
			c.Set(x0, y0, r, color, faint, false)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text writes s starting at (x, y) without wrapping
func (c *Canvas) Text(x, y int, s string, color string, faint bool) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, color, faint, false)
	}
}

// String renders the canvas, one line per row
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var current styleKey
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current.color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.style(current).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.cols; x++ {
			cl := c.cells[y*c.cols+x]
			key := styleKey{color: cl.color, faint: cl.faint, bold: cl.bold}
			if cl.r == 0 {
				key = styleKey{}
			}
			if key != current {
				flush()
				current = key
			}
			if cl.r == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(cl.r)
			}
		}
		flush()
	}
	return b.String()
}

func (c *Canvas) style(key styleKey) lipgloss.Style {
	if s, ok := c.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(key.color)).Faint(key.faint).Bold(key.bold)
	c.styles[key] = s
	return s
}

// DrawScene rasterizes a scene through the viewport onto a cols x rows
// canvas. Nodes are drawn after edges and labels after nodes.
func DrawScene(scene visualization.Scene, vp *render.Viewport, cols, rows int) *Canvas {
	canvas := NewCanvas(cols, rows)
	toCell := func(wx, wy float64) (int, int) {
		sx, sy := vp.WorldToScreen(wx, wy)
		return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
	}

	nodeCells := make([][2]int, len(scene.Nodes))
	for i, n := range scene.Nodes {
		x, y := toCell(n.X, n.Y)
		nodeCells[i] = [2]int{x, y}
		glyph := nodeGlyph
		switch {
		case n.Hovered:
			glyph = hoveredGlyph
		case n.Pinned:
			glyph = pinnedGlyph
		}
		canvas.Set(x, y, glyph, n.Color, n.Opacity < 0.5, n.Hovered)
	}

	for _, e := range scene.Edges {
		x0, y0 := toCell(e.X1, e.Y1)
		x1, y1 := toCell(e.X2, e.Y2)
		color := edgeColor
		if e.Opacity >= 0.6 {
			color = edgeStrongColor
		}
		canvas.Line(x0, y0, x1, y1, edgeGlyph, color, e.Opacity < 0.2)
	}

	for i, n := range scene.Nodes {
		if n.Opacity < 0.5 && !n.Hovered {
			continue
		}
		x, y := nodeCells[i][0], nodeCells[i][1]
		canvas.Text(x+2, y, n.Label, labelColor, !n.Hovered)
	}

	return canvas
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
