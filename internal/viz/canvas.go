package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

const blank = rune(0x2800)

// Canvas is a grid of braille cells. Each cell carries the color of the
// last pixel set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets a dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetColor(x, y, "")
}

// SetColor sets a dot and colors its cell. An empty color leaves the cell
// color unchanged.
func (c *Canvas) SetColor(x, y int, col lipgloss.Color) {
	row, cell, mask, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][cell] |= mask
	if col != "" {
		c.Colors[row][cell] = col
	}
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	row, cell, mask, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][cell] &^= mask
	if c.Grid[row][cell] < blank {
		c.Grid[row][cell] = blank
	}
}

// Get reports whether a dot is set.
func (c *Canvas) Get(x, y int) bool {
	row, cell, mask, ok := c.locate(x, y)
	return ok && c.Grid[row][cell]&mask != 0
}

func (c *Canvas) locate(x, y int) (row, cell int, mask rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	cell, row = x/2, y/4
	if cell >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, cell, rune(pixelMap[y%4][x%2]), true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col lipgloss.Color) {
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
		c.SetColor(x0, y0, col)
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

// FillCircle sets every dot within r of (cx, cy). A radius under one dot
// still marks the center.
func (c *Canvas) FillCircle(cx, cy, r int, col lipgloss.Color) {
	if r < 1 {
		c.SetColor(cx, cy, col)
		return
	}
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r2 {
				c.SetColor(cx+dx, cy+dy, col)
			}
		}
	}
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with cell colors, batching runs of one color.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col != "" {
				run = lipgloss.NewStyle().Foreground(col).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
