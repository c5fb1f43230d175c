package render

import (
	"bytes"
	"fmt"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
)

// RenderText draws the layout as plain text, one line per row, with the
// node marker indented to its lane. Records are matched to rows by
// position and supply the summary column; pass nil to omit it.
func RenderText(res layout.Result, records []checkpoint.Record) string {
	var buf bytes.Buffer
	for row, n := range res.Nodes {
		for lane := 0; lane < res.MaxColumns; lane++ {
			switch {
			case lane == n.ColumnIndex && n.IsMergeCommit:
				buf.WriteString("M ")
			case lane == n.ColumnIndex:
				buf.WriteString("* ")
			case laneActiveAt(res, row, lane):
				buf.WriteString("| ")
			default:
				buf.WriteString("  ")
			}
		}
		fmt.Fprintf(&buf, " %s", shortHash(n.Hash))
		if n.IsHead {
			fmt.Fprintf(&buf, " (%s)", n.BranchName)
		}
		if row < len(records) && records[row].Description != "" {
			fmt.Fprintf(&buf, " %s", records[row].Description)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// laneActiveAt reports whether a vertical line passes through the given
// row and lane, derived from the same-lane connection spans.
func laneActiveAt(res layout.Result, row, lane int) bool {
	for _, c := range res.Connections {
		if c.From.Column != lane || c.To.Column != lane {
			continue
		}
		if c.From.Row < row && row < c.To.Row {
			return true
		}
	}
	return false
}
