package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/mvollmer/lanegraph/pkg/layout"
)

// ToDOT converts a layout to Graphviz DOT format. Node positions come
// from Graphviz's own ranking, but branch colors and edge styling carry
// over, so the output is useful for embedding commit graphs in tooling
// that already speaks DOT.
func ToDOT(res layout.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph commits {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, label=\"\", width=0.25];\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		attrs := fmt.Sprintf("fillcolor=%q, tooltip=%q", n.Color, n.Hash)
		if n.IsHead {
			attrs += fmt.Sprintf(", xlabel=%q", n.BranchName)
		}
		if n.IsCurrent {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Hash, attrs)
	}

	buf.WriteString("\n")
	byPoint := make(map[layout.Point]string, len(res.Nodes))
	for _, n := range res.Nodes {
		byPoint[n.Point()] = n.Hash
	}
	for _, c := range res.Connections {
		style := ""
		if c.Type == layout.ConnMerge {
			style = ", style=dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q%s];\n", byPoint[c.From], byPoint[c.To], c.Color, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.SVG)
}

// GraphvizPNG renders a DOT graph to PNG using Graphviz.
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.PNG)
}

func graphvizRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
