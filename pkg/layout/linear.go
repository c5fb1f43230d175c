package layout

import (
	"github.com/mvollmer/lanegraph/pkg/checkpoint"
)

// LinearEngine flattens the graph into a single column: every record
// sits in lane zero under one fixed color, and a connector is drawn
// only between vertically adjacent rows that are genuinely
// parent-linked. Useful for narrow displays and as a cheap fallback
// when branch topology is not wanted.
type LinearEngine struct {
	color string
}

// NewLinearEngine creates a linear engine drawing with color, or the
// palette default when color is empty.
func NewLinearEngine(color string) *LinearEngine {
	if color == "" {
		color = DefaultPalette[0]
	}
	return &LinearEngine{color: color}
}

// Layout places records newest-first in lane zero. Branch heads and
// merge topology are ignored; only currentRef still marks a node.
func (e *LinearEngine) Layout(records []checkpoint.Record, heads []checkpoint.BranchHead, currentRef string) Result {
	h := checkpoint.NewHistory(records)
	res := Result{Nodes: []Node{}, Connections: []Connection{}}
	if h.Len() == 0 {
		return res
	}

	currentHash := currentRef
	for _, bh := range heads {
		if bh.Name == currentRef {
			currentHash = bh.Hash
			break
		}
	}

	for row := 0; row < h.Len(); row++ {
		rec := h.Record(row)
		res.Nodes = append(res.Nodes, Node{
			Hash:          rec.Hash,
			RowIndex:      row,
			ColumnIndex:   0,
			Color:         e.color,
			IsMergeCommit: rec.IsMerge(),
			IsBranchPoint: h.IsBranchPoint(rec.Hash),
			IsCurrent:     rec.Hash == currentHash && currentRef != "",
		})
	}
	res.MaxColumns = 1

	// Adjacency alone is not enough for an edge: the next row must
	// actually be a parent of this one, or the flattening would invent
	// ancestry that is not in the graph.
	for row := 0; row+1 < h.Len(); row++ {
		rec := h.Record(row)
		next := h.Record(row + 1)
		linked := false
		for _, p := range rec.Parents {
			if p == next.Hash {
				linked = true
				break
			}
		}
		if !linked {
			continue
		}
		res.Connections = append(res.Connections, Connection{
			From:        res.Nodes[row].Point(),
			To:          res.Nodes[row+1].Point(),
			Type:        ConnDirect,
			Color:       e.color,
			StrokeWidth: StrokeDirect,
		})
	}
	return res
}
