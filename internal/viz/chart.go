package viz

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/theme"
)

// plot maps chart pixels onto a canvas placed at (left, top) on screen.
type plot struct {
	cols, rows    int
	width, height float64
	left, top     int
}

func (p plot) sx() float64 { return float64(p.cols*2-1) / p.width }
func (p plot) sy() float64 { return float64(p.rows*4-1) / p.height }

// toSub converts chart pixels to canvas dots.
func (p plot) toSub(px, py float64) (int, int) {
	return int(math.Round(px * p.sx())), int(math.Round(py * p.sy()))
}

// toCell converts chart pixels to the screen cell that holds them.
func (p plot) toCell(px, py float64) (int, int) {
	x, y := p.toSub(px, py)
	return p.left + x/2, p.top + y/4
}

// fromCell converts a screen cell to the chart pixel at its center. ok is
// false outside the canvas.
func (p plot) fromCell(x, y int) (px, py float64, ok bool) {
	cx, cy := x-p.left, y-p.top
	if cx < 0 || cy < 0 || cx >= p.cols || cy >= p.rows {
		return 0, 0, false
	}
	return (float64(cx*2) + 0.5) / p.sx(), (float64(cy*4) + 1.5) / p.sy(), true
}

// radius scales a chart-pixel radius to dots, keeping circles round.
func (p plot) radius(r float64) int {
	return int(math.Round(r * math.Min(p.sx(), p.sy())))
}

// drawChart rasterizes items onto c. Larger circles go first so smaller ones
// stay visible; the hovered element is drawn last in the accent color.
func drawChart(c *Canvas, p plot, items []render.Item, hovered string, th theme.Theme, categories []string) {
	c.Clear()

	bottom := c.SubHeight() - 1
	c.DrawLine(0, 0, 0, bottom, th.Muted)
	c.DrawLine(0, bottom, c.SubWidth()-1, bottom, th.Muted)

	sorted := make([]render.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Key == hovered {
			return false
		}
		if sorted[j].Key == hovered {
			return true
		}
		return sorted[i].Attrs.R > sorted[j].Attrs.R
	})

	for _, it := range sorted {
		col := th.CategoryColor(it.Style.Category, categories)
		if it.Key == hovered {
			col = th.Accent
		}
		x, y := p.toSub(it.Attrs.CX, it.Attrs.CY)
		c.FillCircle(x, y, p.radius(it.Attrs.R), col)
	}
}

// yAxis renders tick labels right-aligned in a gutter of width w, one line
// per canvas row.
func yAxis(p plot, axes *render.Axes, w int) string {
	lines := make([]string, p.rows)
	if axes != nil {
		for _, t := range axes.Y {
			_, row := p.toCell(0, t.Pos)
			row -= p.top
			if row >= 0 && row < p.rows {
				lines[row] = t.Label
			}
		}
	}
	style := Subtle.Width(w).Align(lipgloss.Right)
	for i := range lines {
		lines[i] = style.Render(lines[i] + " ")
	}
	return strings.Join(lines, "\n")
}

// xAxis renders tick labels under the canvas, starting at the gutter.
func xAxis(p plot, axes *render.Axes, gutter int) string {
	line := []rune(strings.Repeat(" ", gutter+p.cols+6))
	if axes != nil {
		for _, t := range axes.X {
			col, _ := p.toCell(t.Pos, 0)
			col += gutter - p.left
			for i, r := range t.Label {
				if col+i < len(line) {
					line[col+i] = r
				}
			}
		}
	}
	return Subtle.Render(strings.TrimRight(string(line), " "))
}

// legend lists categories in palette order.
func legend(th theme.Theme, categories []string) string {
	var b strings.Builder
	for _, c := range categories {
		dot := lipgloss.NewStyle().Foreground(th.CategoryColor(c, categories)).Render("●")
		b.WriteString(dot + " " + c + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
