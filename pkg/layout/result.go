package layout

import (
	"encoding/json"
	"fmt"
)

// ConnectionType classifies a parent edge for rendering.
type ConnectionType string

const (
	// ConnDirect joins a child to a parent in the same lane.
	ConnDirect ConnectionType = "direct"
	// ConnBranch joins a child to a parent in a different lane.
	ConnBranch ConnectionType = "branch"
	// ConnMerge joins a merge checkpoint to a non-primary parent.
	ConnMerge ConnectionType = "merge"
)

// Stroke widths per connection type. The primary line of descent is
// the heaviest; merge joins are the lightest.
const (
	StrokeDirect = 3.0
	StrokeBranch = 2.5
	StrokeMerge  = 2.0
)

// Point addresses a cell in the layout grid. The rendering layer maps
// rows and columns to pixels with a fixed per-row height and per-lane
// width.
type Point struct {
	Row    int `json:"row_index" bson:"row_index"`
	Column int `json:"column_index" bson:"column_index"`
}

// Node is the computed layout position and styling for one checkpoint.
type Node struct {
	Hash        string `json:"hash" bson:"hash"`
	RowIndex    int    `json:"row_index" bson:"row_index"`
	ColumnIndex int    `json:"column_index" bson:"column_index"`

	// BranchName is the resolved primary branch name.
	BranchName string `json:"branch_name" bson:"branch_name"`
	// Color is the display color assigned to BranchName.
	Color string `json:"color" bson:"color"`

	IsMergeCommit bool `json:"is_merge_commit,omitempty" bson:"is_merge_commit,omitempty"`
	IsBranchPoint bool `json:"is_branch_point,omitempty" bson:"is_branch_point,omitempty"`
	IsHead        bool `json:"is_head,omitempty" bson:"is_head,omitempty"`
	IsCurrent     bool `json:"is_current,omitempty" bson:"is_current,omitempty"`

	// Priority is the branch-priority score used for lane contention.
	Priority int `json:"priority" bson:"priority"`

	// MergeParentLanes holds the lane of each parent in parent-list
	// order. Populated only for merge checkpoints.
	MergeParentLanes []int `json:"merge_parent_lanes,omitempty" bson:"merge_parent_lanes,omitempty"`
	// SecondaryBranches names the branches of parents after the first.
	// Populated only for merge checkpoints.
	SecondaryBranches []string `json:"secondary_branches,omitempty" bson:"secondary_branches,omitempty"`
}

// Point returns the node's grid position.
func (n Node) Point() Point { return Point{Row: n.RowIndex, Column: n.ColumnIndex} }

// Connection is one drawable parent edge. From is always the child
// (smaller row index), To the parent.
type Connection struct {
	From        Point          `json:"from" bson:"from"`
	To          Point          `json:"to" bson:"to"`
	Type        ConnectionType `json:"type" bson:"type"`
	Color       string         `json:"color" bson:"color"`
	StrokeWidth float64        `json:"stroke_width" bson:"stroke_width"`
}

// Result is the complete layout for one history: one node per input
// record, one connection per resolvable parent edge, and the lane
// count. It is a pure function of the engine's input and holds no
// references back into it.
type Result struct {
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Connections []Connection `json:"connections" bson:"connections"`
	MaxColumns  int          `json:"max_columns" bson:"max_columns"`
}

// MarshalResult serializes a Result to pretty-printed JSON.
func MarshalResult(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalResult deserializes JSON bytes into a Result.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return r, nil
}
