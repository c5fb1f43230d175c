package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/mvollmer/lanegraph/pkg/layout"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	rowHeight  float64
	laneWidth  float64
	margin     float64
	radius     float64
	background string
	labels     []string
}

// WithRowHeight sets the vertical pixel distance between rows.
func WithRowHeight(h int) SVGOption { return func(r *svgRenderer) { r.rowHeight = float64(h) } }

// WithLaneWidth sets the horizontal pixel distance between lanes.
func WithLaneWidth(w int) SVGOption { return func(r *svgRenderer) { r.laneWidth = float64(w) } }

// WithBackground sets a solid background color; the default is
// transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithLabels draws one text label per row, positionally matched to the
// layout's rows.
func WithLabels(labels []string) SVGOption { return func(r *svgRenderer) { r.labels = labels } }

// RenderSVG draws the layout as a standalone SVG document. The grid
// maps rows to a fixed vertical pitch and lanes to a fixed horizontal
// pitch; connections are straight lines within a lane and cubic curves
// across lanes.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{rowHeight: 40, laneWidth: 24, margin: 12, radius: 5}
	for _, opt := range opts {
		opt(&r)
	}

	width := r.margin*2 + float64(res.MaxColumns)*r.laneWidth
	if len(r.labels) > 0 {
		width += 360
	}
	height := r.margin*2 + float64(len(res.Nodes))*r.rowHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.background)
	}

	// Edges first so nodes draw on top of them.
	for _, c := range res.Connections {
		x1, y1 := r.center(c.From)
		x2, y2 := r.center(c.To)
		if c.From.Column == c.To.Column {
			fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke=%q stroke-width="%.1f"/>`+"\n",
				x1, y1, x2, y2, c.Color, c.StrokeWidth)
			continue
		}
		my := (y1 + y2) / 2
		fmt.Fprintf(&buf, `  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke=%q stroke-width="%.1f"/>`+"\n",
			x1, y1, x1, my, x2, my, x2, y2, c.Color, c.StrokeWidth)
	}

	for _, n := range res.Nodes {
		x, y := r.center(n.Point())
		radius := r.radius
		if n.IsMergeCommit {
			radius -= 1
		}
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill=%q`, x, y, radius, n.Color)
		if n.IsCurrent {
			fmt.Fprintf(&buf, ` stroke="#ffffff" stroke-width="2"`)
		}
		buf.WriteString("/>\n")
		if n.IsHead {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke=%q stroke-width="1.5"/>`+"\n",
				x, y, radius+3, n.Color)
		}
	}

	if len(r.labels) > 0 {
		textX := r.margin + float64(res.MaxColumns)*r.laneWidth + 8
		for row, label := range r.labels {
			if row >= len(res.Nodes) {
				break
			}
			_, y := r.center(res.Nodes[row].Point())
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="12" dominant-baseline="middle">%s</text>`+"\n",
				textX, y, html.EscapeString(label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) center(p layout.Point) (x, y float64) {
	x = r.margin + float64(p.Column)*r.laneWidth + r.laneWidth/2
	y = r.margin + float64(p.Row)*r.rowHeight + r.rowHeight/2
	return x, y
}
