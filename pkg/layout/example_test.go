package layout_test

import (
	"fmt"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
)

func ExampleEngine_Layout() {
	// main holds c1..c3; feature branched off c2.
	records := []checkpoint.Record{
		{Hash: "c4", Parents: []string{"c2"}},
		{Hash: "c3", Parents: []string{"c2"}},
		{Hash: "c2", Parents: []string{"c1"}},
		{Hash: "c1"},
	}
	heads := []checkpoint.BranchHead{
		{Name: "main", Hash: "c3"},
		{Name: "feature", Hash: "c4"},
	}

	res := layout.NewEngine(layout.DefaultConfig()).Layout(records, heads, "main")

	for _, n := range res.Nodes {
		fmt.Printf("%s row=%d lane=%d branch=%s\n", n.Hash, n.RowIndex, n.ColumnIndex, n.BranchName)
	}
	fmt.Println("lanes:", res.MaxColumns)
	// Output:
	// c4 row=0 lane=0 branch=feature
	// c3 row=1 lane=1 branch=main
	// c2 row=2 lane=1 branch=main
	// c1 row=3 lane=1 branch=main
	// lanes: 2
}

func ExampleEngine_Layout_merge() {
	// c5 merges feature (c4) back into main.
	records := []checkpoint.Record{
		{Hash: "c5", Parents: []string{"c3", "c4"}},
		{Hash: "c4", Parents: []string{"c2"}},
		{Hash: "c3", Parents: []string{"c2"}},
		{Hash: "c2", Parents: []string{"c1"}},
		{Hash: "c1"},
	}
	heads := []checkpoint.BranchHead{
		{Name: "main", Hash: "c5"},
		{Name: "feature", Hash: "c4"},
	}

	res := layout.NewEngine(layout.DefaultConfig()).Layout(records, heads, "main")

	for _, c := range res.Connections {
		fmt.Printf("(%d,%d) -> (%d,%d) %s\n", c.From.Row, c.From.Column, c.To.Row, c.To.Column, c.Type)
	}
	// Output:
	// (0,0) -> (2,0) direct
	// (0,0) -> (1,1) merge
	// (1,1) -> (3,0) branch
	// (2,0) -> (3,0) direct
	// (3,0) -> (4,0) direct
}

func ExampleNewLinearEngine() {
	records := []checkpoint.Record{
		{Hash: "c2", Parents: []string{"c1"}},
		{Hash: "c1"},
	}

	res := layout.NewLinearEngine("").Layout(records, nil, "")

	fmt.Println("lanes:", res.MaxColumns)
	fmt.Println("edges:", len(res.Connections))
	// Output:
	// lanes: 1
	// edges: 1
}
