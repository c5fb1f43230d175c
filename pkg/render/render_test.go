package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
)

func forkLayout() layout.Result {
	records := []checkpoint.Record{
		{Hash: "c4c4c4c4c4c4", Parents: []string{"c2c2c2c2c2c2"}},
		{Hash: "c3c3c3c3c3c3", Parents: []string{"c2c2c2c2c2c2"}},
		{Hash: "c2c2c2c2c2c2", Parents: []string{"c1c1c1c1c1c1"}},
		{Hash: "c1c1c1c1c1c1"},
	}
	heads := []checkpoint.BranchHead{
		{Name: "main", Hash: "c3c3c3c3c3c3"},
		{Name: "feature", Hash: "c4c4c4c4c4c4"},
	}
	return layout.NewEngine(layout.DefaultConfig()).Layout(records, heads, "main")
}

func TestRenderSVG(t *testing.T) {
	res := forkLayout()

	svg := RenderSVG(res)

	if !bytes.HasPrefix(svg, []byte("<svg ")) {
		t.Fatalf("output does not start with <svg: %.40s", svg)
	}
	if !bytes.HasSuffix(bytes.TrimSpace(svg), []byte("</svg>")) {
		t.Error("output does not end with </svg>")
	}
	if got := bytes.Count(svg, []byte("<circle")); got < len(res.Nodes) {
		t.Errorf("circle count = %d, want at least %d (one per node)", got, len(res.Nodes))
	}
	lines := bytes.Count(svg, []byte("<line")) + bytes.Count(svg, []byte("<path"))
	if lines != len(res.Connections) {
		t.Errorf("edge element count = %d, want %d", lines, len(res.Connections))
	}
	for _, n := range res.Nodes {
		if !bytes.Contains(svg, []byte(n.Color)) {
			t.Errorf("output missing node color %s", n.Color)
		}
	}
}

func TestRenderSVG_Deterministic(t *testing.T) {
	res := forkLayout()
	if !bytes.Equal(RenderSVG(res), RenderSVG(res)) {
		t.Error("repeated renders disagree")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	res := forkLayout()

	svg := RenderSVG(res,
		WithBackground("#101010"),
		WithLabels([]string{"add feature", "fix bug", "init <core>", "root"}),
	)

	if !bytes.Contains(svg, []byte(`fill="#101010"`)) {
		t.Error("background rect missing")
	}
	if !bytes.Contains(svg, []byte("add feature")) {
		t.Error("label missing")
	}
	// Labels pass through XML escaping.
	if !bytes.Contains(svg, []byte("init &lt;core&gt;")) {
		t.Error("label not escaped")
	}
}

func TestToDOT(t *testing.T) {
	res := forkLayout()

	dot := ToDOT(res)

	if !strings.HasPrefix(dot, "digraph commits {") {
		t.Fatalf("unexpected DOT prefix: %.40s", dot)
	}
	if got := strings.Count(dot, " -> "); got != len(res.Connections) {
		t.Errorf("edge count = %d, want %d", got, len(res.Connections))
	}
	if !strings.Contains(dot, `xlabel="main"`) {
		t.Error("head branch label missing")
	}
	if !strings.Contains(dot, "penwidth=3") {
		t.Error("current node emphasis missing")
	}
}

func TestRenderText(t *testing.T) {
	res := forkLayout()
	records := []checkpoint.Record{
		{Description: "add feature"},
		{Description: "fix bug"},
		{Description: "branch base"},
		{Description: "root"},
	}

	text := RenderText(res, records)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != len(res.Nodes) {
		t.Fatalf("line count = %d, want %d", len(lines), len(res.Nodes))
	}
	if !strings.Contains(lines[0], "c4c4c4c4") {
		t.Errorf("row 0 missing short hash: %q", lines[0])
	}
	if !strings.Contains(lines[0], "(feature)") {
		t.Errorf("row 0 missing head marker: %q", lines[0])
	}
	if !strings.Contains(lines[1], "fix bug") {
		t.Errorf("row 1 missing description: %q", lines[1])
	}
	for _, line := range lines {
		if !strings.Contains(line, "*") && !strings.Contains(line, "M") {
			t.Errorf("row without node marker: %q", line)
		}
	}
}

func TestRenderText_MergeMarker(t *testing.T) {
	records := []checkpoint.Record{
		{Hash: "c3", Parents: []string{"c1", "c2"}},
		{Hash: "c2", Parents: []string{"c1"}},
		{Hash: "c1"},
	}
	res := layout.NewEngine(layout.DefaultConfig()).Layout(records,
		[]checkpoint.BranchHead{{Name: "main", Hash: "c3"}}, "")

	text := RenderText(res, nil)

	if !strings.HasPrefix(text, "M ") {
		t.Errorf("merge row marker missing: %q", strings.SplitN(text, "\n", 2)[0])
	}
}
