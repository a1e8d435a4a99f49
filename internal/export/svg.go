package export

import (
	"bytes"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/theme"
)

// SVGOptions sizes the document. Width and Height are the plot area; the
// margins are added around it.
type SVGOptions struct {
	Width, Height            float64
	Top, Right, Bottom, Left float64
	Theme                    theme.Theme
	Categories               []string
}

// FrameToSVG writes one frame as a standalone SVG document: both axes, the
// year label and one titled circle per element, in key order.
func FrameToSVG(f engine.Frame, axes *render.Axes, opts SVGOptions) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	th := opts.Theme

	w, h := px(opts.Width), px(opts.Height)
	canvas.Start(px(opts.Width+opts.Left+opts.Right), px(opts.Height+opts.Top+opts.Bottom),
		`font-family="sans-serif"`, `font-size="10"`)
	canvas.Rect(0, 0, px(opts.Width+opts.Left+opts.Right), px(opts.Height+opts.Top+opts.Bottom), attr("fill", string(th.Background)))
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", px(opts.Left), px(opts.Top)))

	if axes != nil {
		canvas.Group(`class="x axis"`, fmt.Sprintf(`transform="translate(0,%d)"`, h), attr("stroke", string(th.Muted)))
		canvas.Line(0, 0, w, 0)
		for _, t := range axes.X {
			canvas.Gtransform(fmt.Sprintf("translate(%d,0)", px(t.Pos)))
			canvas.Line(0, 0, 0, 6)
			canvas.Text(0, 16, t.Label, `text-anchor="middle"`, `stroke="none"`, attr("fill", string(th.Text)))
			canvas.Gend()
		}
		canvas.Gend()

		canvas.Group(`class="y axis"`, attr("stroke", string(th.Muted)))
		canvas.Line(0, 0, 0, h)
		for _, t := range axes.Y {
			canvas.Gtransform(fmt.Sprintf("translate(0,%d)", px(t.Pos)))
			canvas.Line(0, 0, -6, 0)
			canvas.Text(-9, 3, t.Label, `text-anchor="end"`, `stroke="none"`, attr("fill", string(th.Text)))
			canvas.Gend()
		}
		canvas.Gend()
	}

	canvas.Text(w, h-10, f.Label, `class="year"`, `text-anchor="end"`, `font-size="48"`,
		attr("fill", string(th.Muted)), `fill-opacity="0.4"`)

	canvas.Group(`class="entities"`, `fill-opacity="0.8"`)
	for _, it := range f.Items {
		fill := th.CategoryColor(it.Style.Category, opts.Categories)
		canvas.Group(attr("class", it.Style.Class))
		canvas.Title(it.Style.Label)
		canvas.Circle(px(it.Attrs.CX), px(it.Attrs.CY), px(it.Attrs.R), attr("fill", string(fill)))
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return buf.String()
}

func px(v float64) int { return int(math.Round(v)) }

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}
