package layout

import (
	"github.com/mvollmer/lanegraph/pkg/checkpoint"
)

// Tuning defaults. The take-over premiums are empirically chosen for
// visual density; they are carried on Config rather than hard-coded so
// hosts can tune them.
const (
	// DefaultHeadTakeoverPremium is the margin a branch head must beat a
	// lane occupant's priority by to claim the lane.
	DefaultHeadTakeoverPremium = 0.20
	// DefaultReuseTakeoverPremium is the stricter margin required when a
	// lane take-over is the last resort rather than a head's preferred
	// placement.
	DefaultReuseTakeoverPremium = 0.50
	// DefaultHeadLookahead bounds how many lanes a head claim scans.
	DefaultHeadLookahead = 10
)

// Config tunes an Engine. The zero value is usable but claims no lanes
// by take-over; use DefaultConfig for the standard tuning.
type Config struct {
	// HeadTakeoverPremium is the priority margin for head lane claims.
	HeadTakeoverPremium float64
	// ReuseTakeoverPremium is the priority margin for last-resort lane
	// reuse.
	ReuseTakeoverPremium float64
	// HeadLookahead bounds the lane scan for head claims; <=0 means
	// unbounded.
	HeadLookahead int
	// Palette overrides DefaultPalette when Colors is nil.
	Palette []string
	// Colors, when set, is the shared color assigner to use. When nil
	// the engine constructs a fresh assigner per call, so concurrent
	// Layout calls never share mutable state.
	Colors *ColorAssigner
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		HeadTakeoverPremium:  DefaultHeadTakeoverPremium,
		ReuseTakeoverPremium: DefaultReuseTakeoverPremium,
		HeadLookahead:        DefaultHeadLookahead,
	}
}

// Engine computes lane, color, and connector assignments for an
// arbitrary checkpoint DAG. It is a pure, synchronous transform: the
// same input always produces the same Result, and nothing outlives a
// call except the color assigner when the caller supplies a shared one.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config) *Engine { return &Engine{cfg: cfg} }

// Layout places every record on the grid and emits its parent
// connectors. Records must be sorted newest-first; the row index is
// positional. currentRef is a branch name or bare hash ("" for none).
//
// Malformed references never abort the computation: dangling parent
// hashes lose their edge but the child is still laid out, an unmatched
// currentRef marks nothing current, and an empty record list yields an
// empty result.
func (e *Engine) Layout(records []checkpoint.Record, heads []checkpoint.BranchHead, currentRef string) Result {
	h := checkpoint.NewHistory(records)
	res := Result{Nodes: []Node{}, Connections: []Connection{}}
	if h.Len() == 0 {
		return res
	}

	branches := resolveBranches(h, heads)
	colors := e.cfg.Colors
	if colors == nil {
		colors = NewColorAssigner(e.cfg.Palette)
	}
	currentHash := currentRef
	for _, bh := range heads {
		if bh.Name == currentRef {
			currentHash = bh.Hash
			break
		}
	}

	lanes := &laneTable{}
	nodes := make([]Node, h.Len())
	maxColumns := 0

	for row := 0; row < h.Len(); row++ {
		rec := h.Record(row)
		origin := branches.originByRow[row]
		priority := branches.priorityFor(origin)
		_, isHead := branches.headByHash[rec.Hash]

		lane := -1
		if isHead {
			if l, ok := lanes.claimHead(priority, e.cfg.HeadTakeoverPremium, e.cfg.HeadLookahead); ok {
				lane = l
			}
		}
		if lane < 0 {
			// A newer checkpoint in some lane listed this one as its
			// primary parent; continue that lane.
			if l, ok := lanes.reservedFor(rec.Hash, origin.Name); ok {
				lane = l
			}
		}
		if lane < 0 && rec.IsMerge() {
			lane = e.laneBetweenParents(lanes, rec)
		}
		if lane < 0 {
			if l, ok := lanes.claimAny(priority, e.cfg.ReuseTakeoverPremium); ok {
				lane = l
			} else {
				lane = lanes.extend()
			}
		}

		// All other lanes waiting for this checkpoint terminate at this
		// row; the chosen lane continues down the primary line of
		// descent, or frees when the line ends here.
		lanes.releaseAllFor(rec.Hash, lane)
		if pp := rec.PrimaryParent(); pp != "" {
			if _, ok := h.Row(pp); ok {
				lanes.occupy(lane, pp, origin.Name, priority)
			} else {
				lanes.release(lane)
			}
		} else {
			lanes.release(lane)
		}

		nodes[row] = Node{
			Hash:          rec.Hash,
			RowIndex:      row,
			ColumnIndex:   lane,
			BranchName:    origin.Name,
			Color:         colors.ColorFor(origin.Name),
			IsMergeCommit: rec.IsMerge(),
			IsBranchPoint: h.IsBranchPoint(rec.Hash),
			IsHead:        isHead,
			IsCurrent:     rec.Hash == currentHash && currentRef != "",
			Priority:      priority,
		}
		if lane+1 > maxColumns {
			maxColumns = lane + 1
		}
	}

	res.Connections = e.connect(h, nodes)
	res.Nodes = nodes
	res.MaxColumns = maxColumns
	return res
}

// laneBetweenParents looks for a free lane strictly between the
// outermost lanes already reserved for the merge's parents, visually
// centering the join. Returns -1 when fewer than two parents have
// reserved lanes or no lane between them is free.
func (e *Engine) laneBetweenParents(lanes *laneTable, rec checkpoint.Record) int {
	lo, hi, found := 0, 0, 0
	for _, p := range rec.Parents {
		l, ok := lanes.reservedFor(p, "")
		if !ok {
			continue
		}
		if found == 0 || l < lo {
			lo = l
		}
		if found == 0 || l > hi {
			hi = l
		}
		found++
	}
	if found < 2 {
		return -1
	}
	if l, ok := lanes.freeBetween(lo, hi); ok {
		return l
	}
	return -1
}

// connect emits one Connection per resolvable parent edge, and fills in
// the merge-only node fields, once every node's lane is final. From is
// the child, To the parent; endpoints always match emitted nodes and
// dangling parents produce no connection at all.
func (e *Engine) connect(h *checkpoint.History, nodes []Node) []Connection {
	conns := []Connection{}
	for row := range nodes {
		rec := h.Record(row)
		if rec.IsMerge() {
			for i, p := range rec.Parents {
				pr, ok := h.Row(p)
				if !ok {
					continue
				}
				nodes[row].MergeParentLanes = append(nodes[row].MergeParentLanes, nodes[pr].ColumnIndex)
				if i > 0 {
					nodes[row].SecondaryBranches = append(nodes[row].SecondaryBranches, nodes[pr].BranchName)
				}
			}
		}
		for i, p := range rec.Parents {
			pr, ok := h.Row(p)
			if !ok {
				continue
			}
			child, parent := nodes[row], nodes[pr]
			typ := ConnDirect
			stroke := StrokeDirect
			color := child.Color
			switch {
			case rec.IsMerge() && i > 0:
				// Secondary merge edges take the parent's color, so the
				// merge absorbs the line of the branch being merged in.
				// The position in the original parent list decides what is
				// secondary; a dangling primary parent never promotes a
				// merged-in line to the direct type.
				typ, stroke, color = ConnMerge, StrokeMerge, parent.Color
			case child.ColumnIndex != parent.ColumnIndex:
				typ, stroke = ConnBranch, StrokeBranch
			}
			conns = append(conns, Connection{
				From:        child.Point(),
				To:          parent.Point(),
				Type:        typ,
				Color:       color,
				StrokeWidth: stroke,
			})
		}
	}
	return conns
}
