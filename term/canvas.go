// Package term renders a hanami engine in the terminal with bubbletea.
// Every element is one glyph on a character grid; the haiku sits below it.
package term

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/hanami"
)

var (
	petalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("218"))
	flowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	haikuStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("225")).Italic(true)
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Petal glyphs by rotation quadrant.
var petalGlyphs = []rune{'\'', '`', ',', '.'}

const flowerGlyph = '*'

// Canvas is a character grid that implements hanami.Stage, hanami.Viewport
// and hanami.TextSink. Coordinates are in cells.
type Canvas struct {
	cols, rows int
	glyphs     map[*glyph]struct{}
	seq        int
	haiku      [3]string
}

type glyph struct {
	canvas  *Canvas
	seq     int
	kind    hanami.Kind
	x, y    float64
	rot     float64
	visible bool
	removed bool
}

// NewCanvas creates a canvas of cols by rows cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{glyphs: make(map[*glyph]struct{})}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid size. Sizes below one cell are clamped.
func (c *Canvas) Resize(cols, rows int) {
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
}

// Size implements hanami.Viewport.
func (c *Canvas) Size() (float64, float64) { return float64(c.cols), float64(c.rows) }

// Create implements hanami.Stage.
func (c *Canvas) Create(kind hanami.Kind) (hanami.Sink, error) {
	c.seq++
	g := &glyph{canvas: c, seq: c.seq, kind: kind}
	c.glyphs[g] = struct{}{}
	return g, nil
}

// Remove implements hanami.Stage.
func (c *Canvas) Remove(sink hanami.Sink) {
	if g, ok := sink.(*glyph); ok {
		g.remove()
	}
}

// SetLine implements hanami.TextSink.
func (c *Canvas) SetLine(index int, text string) {
	if index >= 0 && index < len(c.haiku) {
		c.haiku[index] = text
	}
}

// Len returns the number of live glyphs.
func (c *Canvas) Len() int { return len(c.glyphs) }

func (g *glyph) Render(f hanami.Frame) error {
	if g.removed {
		return hanami.ErrTargetGone
	}
	g.x, g.y, g.rot = f.X, f.Y, f.Rotation
	g.visible = true
	return nil
}

func (g *glyph) Complete() { g.remove() }

func (g *glyph) remove() {
	if g.removed {
		return
	}
	g.removed = true
	delete(g.canvas.glyphs, g)
}

func (g *glyph) rune() rune {
	if g.kind == hanami.KindFlower {
		return flowerGlyph
	}
	turn := math.Mod(g.rot, 360)
	if turn < 0 {
		turn += 360
	}
	return petalGlyphs[int(turn/90)%len(petalGlyphs)]
}

// Grid returns the visible glyphs placed on the grid. Empty cells are
// spaces. When two glyphs share a cell, the newer one wins.
func (c *Canvas) Grid() [][]rune {
	grid := make([][]rune, c.rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", c.cols))
	}
	for _, g := range c.sorted() {
		if !g.visible {
			continue
		}
		col, row := int(math.Floor(g.x)), int(math.Floor(g.y))
		if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
			continue
		}
		grid[row][col] = g.rune()
	}
	return grid
}

func (c *Canvas) sorted() []*glyph {
	out := make([]*glyph, 0, len(c.glyphs))
	for g := range c.glyphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Render draws the grid and haiku as styled text.
func (c *Canvas) Render() string {
	var b strings.Builder
	for _, row := range c.Grid() {
		for _, r := range row {
			switch {
			case r == ' ':
				b.WriteRune(r)
			case r == flowerGlyph:
				b.WriteString(flowerStyle.Render(string(r)))
			default:
				b.WriteString(petalStyle.Render(string(r)))
			}
		}
		b.WriteByte('\n')
	}
	for _, line := range c.haiku {
		b.WriteString("  ")
		b.WriteString(haikuStyle.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}
