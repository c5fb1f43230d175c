package layout

import (
	"testing"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
)

func TestLinearLayout_SingleColumn(t *testing.T) {
	records := []checkpoint.Record{
		rec("c4", "c2"),
		rec("c3", "c2"),
		rec("c2", "c1"),
		rec("c1"),
	}

	res := NewLinearEngine("").Layout(records, nil, "")

	if res.MaxColumns != 1 {
		t.Errorf("MaxColumns = %d, want 1", res.MaxColumns)
	}
	for _, n := range res.Nodes {
		if n.ColumnIndex != 0 {
			t.Errorf("node %s lane = %d, want 0", n.Hash, n.ColumnIndex)
		}
		if n.Color != DefaultPalette[0] {
			t.Errorf("node %s color = %q, want %q", n.Hash, n.Color, DefaultPalette[0])
		}
	}
}

func TestLinearLayout_AdjacencyGuard(t *testing.T) {
	// c4's parent is c2, not the adjacent c3: no edge between rows 0
	// and 1.
	records := []checkpoint.Record{
		rec("c4", "c2"),
		rec("c3", "c2"),
		rec("c2", "c1"),
		rec("c1"),
	}

	res := NewLinearEngine("").Layout(records, nil, "")

	if len(res.Connections) != 2 {
		t.Fatalf("Connections = %d, want 2", len(res.Connections))
	}
	for _, c := range res.Connections {
		if c.From.Row == 0 {
			t.Errorf("edge drawn from row 0 to row %d without parent link", c.To.Row)
		}
		if c.Type != ConnDirect {
			t.Errorf("connection type = %q, want %q", c.Type, ConnDirect)
		}
	}
}

func TestLinearLayout_CustomColor(t *testing.T) {
	res := NewLinearEngine("#123456").Layout([]checkpoint.Record{rec("c1")}, nil, "c1")

	if got := res.Nodes[0].Color; got != "#123456" {
		t.Errorf("color = %q, want #123456", got)
	}
	if !res.Nodes[0].IsCurrent {
		t.Error("IsCurrent = false, want true")
	}
}
