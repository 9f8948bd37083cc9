package viz

import (
	"strings"

	"github.com/san-kum/mcwalk/internal/geom"
)

// Braille patterns pack 2x4 dots per cell, unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel buffer with a world-to-screen transform, so
// particles and walls draw in domain coordinates.
type Canvas struct {
	Width, Height int
	Min, Max      geom.Vec
	grid          [][]rune
}

func NewCanvas(w, h int, min, max geom.Vec) *Canvas {
	c := &Canvas{Width: w, Height: h, Min: min, Max: max, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// project maps a world point to sub-pixel coordinates, y flipped so the
// domain's y axis points up on screen.
func (c *Canvas) project(p geom.Vec) (int, int) {
	sx := float64(c.Width*2) * (p.X - c.Min.X) / (c.Max.X - c.Min.X)
	sy := float64(c.Height*4) * (c.Max.Y - p.Y) / (c.Max.Y - c.Min.Y)
	return int(sx), int(sy)
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Plot(p geom.Vec) {
	x, y := c.project(p)
	c.set(x, y)
}

// Segment draws a world-space line with Bresenham.
func (c *Canvas) Segment(a, b geom.Vec) {
	x0, y0 := c.project(a)
	x1, y1 := c.project(b)

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
		c.set(x0, y0)
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

// Walls draws each wall of the domain, clipping infinite walls to the
// canvas bounds along the wall direction.
func (c *Canvas) Walls(dom *geom.Domain) {
	span := c.Max.Sub(c.Min).Norm()
	for _, w := range dom.Walls {
		p1, p2 := w.P1, w.P2
		if w.Infinite {
			dir := p2.Sub(p1)
			n := dir.Norm()
			if n == 0 {
				continue
			}
			dir = dir.Scale(1 / n)
			p1 = w.P1.Sub(dir.Scale(span))
			p2 = w.P1.Add(dir.Scale(span))
		}
		c.Segment(p1, p2)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
