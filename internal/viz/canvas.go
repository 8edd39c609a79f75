package viz

import "strings"

// Dot bits within a braille cell, indexed [row][col]. Rows 0-2 use the
// original six-dot layout and row 3 the two dots added later, hence the
// uneven bit order.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Width×Height grid of braille cells, each 2 dots wide and 4
// high. Cells are stored as dot bitmasks, row-major.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// DotsWide and DotsHigh give the canvas size in dots.
func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

// locate returns the cell index and bit for a dot, or ok=false when the
// dot is off the canvas.
func (c *Canvas) locate(x, y int) (idx int, bit uint8, ok bool) {
	if x < 0 || y < 0 || x >= c.DotsWide() || y >= c.DotsHigh() {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, dotBits[y%4][x%2], true
}

// Set lights the dot at (x, y). Out of range is ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.locate(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if i, bit, ok := c.locate(x, y); ok {
		c.cells[i] &^= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.locate(x, y)
	return ok && c.cells[i]&bit != 0
}

// Cell returns the braille rune at cell (col, row).
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return blank
	}
	return blank + rune(c.cells[row*c.Width+col])
}

// PlotUnit lights the dot for a point on the [-1, 1]² plate, +y up.
func (c *Canvas) PlotUnit(x, y float64) {
	w, h := c.DotsWide(), c.DotsHigh()
	if w == 0 || h == 0 {
		return
	}
	c.Set(int((x+1)/2*float64(w-1)), int((1-y)/2*float64(h-1)))
}

func (c *Canvas) Clear() { clear(c.cells) }

// Lit counts the dots that are set.
func (c *Canvas) Lit() int {
	n := 0
	for _, b := range c.cells {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// DrawLine lights every dot on the segment from (x0, y0) to (x1, y1),
// stepping along the longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (dx*i*2+sign(dx)*steps)/(2*steps)
		y := y0 + (dy*i*2+sign(dy)*steps)/(2*steps)
		c.Set(x, y)
	}
}

// DrawBorder outlines the canvas edge.
func (c *Canvas) DrawBorder() {
	w, h := c.DotsWide()-1, c.DotsHigh()-1
	c.DrawLine(0, 0, w, 0)
	c.DrawLine(w, 0, w, h)
	c.DrawLine(w, h, 0, h)
	c.DrawLine(0, h, 0, 0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
