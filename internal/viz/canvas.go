package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every cell is a Braille pattern, giving
// a dot resolution of (2*Cols) x (4*Rows). World coordinates set with
// SetBounds map onto the dot grid with +y pointing up.
type Canvas struct {
	Cols, Rows int
	cells      [][]rune

	minX, minY float64
	scale      float64
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]rune, rows), scale: 1}
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
	}
	c.Clear()
	return c
}

// SetBounds fits the world rectangle [minX,maxX]x[minY,maxY] into the
// canvas, keeping the aspect ratio.
func (c *Canvas) SetBounds(minX, minY, maxX, maxY float64) {
	c.minX, c.minY = minX, minY
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		c.scale = 1
		return
	}
	c.scale = math.Min(float64(2*c.Cols-1)/w, float64(4*c.Rows-1)/h)
}

func (c *Canvas) dots() (int, int) { return 2 * c.Cols, 4 * c.Rows }

// toDot maps a world point to dot coordinates.
func (c *Canvas) toDot(x, y float64) (int, int) {
	_, hd := c.dots()
	dx := int(math.Round((x - c.minX) * c.scale))
	dy := hd - 1 - int(math.Round((y-c.minY)*c.scale))
	return dx, dy
}

// Set lights dot (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	wd, hd := c.dots()
	if x < 0 || y < 0 || x >= wd || y >= hd {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// IsSet reports whether dot (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	wd, hd := c.dots()
	if x < 0 || y < 0 || x >= wd || y >= hd {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Plot lights the dot under a world point.
func (c *Canvas) Plot(x, y float64) {
	c.Set(c.toDot(x, y))
}

// Circle outlines a world-space circle; tiny radii collapse to one dot.
func (c *Canvas) Circle(x, y, r float64) {
	rd := r * c.scale
	if rd < 1 {
		c.Plot(x, y)
		return
	}
	cx, cy := c.toDot(x, y)
	steps := max(8, int(2*math.Pi*rd))
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(cx+int(math.Round(rd*math.Cos(a))), cy-int(math.Round(rd*math.Sin(a))))
	}
}

// Line joins two world points (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	ax, ay := c.toDot(x0, y0)
	bx, by := c.toDot(x1, y1)
	c.line(ax, ay, bx, by)
}

func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// Rect outlines a world-space rectangle.
func (c *Canvas) Rect(minX, minY, maxX, maxY float64) {
	c.Line(minX, minY, maxX, minY)
	c.Line(maxX, minY, maxX, maxY)
	c.Line(maxX, maxY, minX, maxY)
	c.Line(minX, maxY, minX, minY)
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
