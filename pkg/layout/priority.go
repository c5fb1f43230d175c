package layout

import (
	"github.com/mvollmer/lanegraph/pkg/checkpoint"
)

// MaxBranchPriority is the fixed priority constant for main/master.
// Every other branch scores strictly below it, so the primary branch
// can never lose a lane to a take-over.
const MaxBranchPriority = 1 << 20

func isPrimaryBranch(name string) bool { return name == "main" || name == "master" }

// branchTable holds the per-row branch resolution and the branch
// priority scores computed before lane assignment.
type branchTable struct {
	originByRow []BranchOrigin
	priority    map[string]int
	headByHash  map[string]string // checkpoint hash -> branch name
}

// resolveBranches performs the branch-name and priority pass: every row
// gets a BranchOrigin (head name, name inherited along the primary line
// of descent, or a synthetic commit-<prefix> name), branches are sized
// by the number of rows they claimed, and main/master is pinned to
// MaxBranchPriority. Non-primary branches use their commit count as the
// priority score, which orders them by descending count as required for
// lane contention.
func resolveBranches(h *checkpoint.History, heads []checkpoint.BranchHead) *branchTable {
	t := &branchTable{
		originByRow: make([]BranchOrigin, h.Len()),
		priority:    make(map[string]int),
		headByHash:  make(map[string]string, len(heads)),
	}

	for _, bh := range heads {
		prev, claimed := t.headByHash[bh.Hash]
		if !claimed || (!isPrimaryBranch(prev) && isPrimaryBranch(bh.Name)) {
			t.headByHash[bh.Hash] = bh.Name
		}
	}

	// Walk the primary-parent chain from each head, naming rows
	// first-come. main/master walks first so shared ancestry belongs to
	// the primary branch.
	inherited := make(map[int]string, h.Len())
	walk := func(bh checkpoint.BranchHead) {
		row, ok := h.Row(bh.Hash)
		for ok {
			if _, taken := inherited[row]; taken {
				return
			}
			inherited[row] = bh.Name
			row, ok = h.Row(h.Record(row).PrimaryParent())
		}
	}
	for _, bh := range heads {
		if isPrimaryBranch(bh.Name) {
			walk(bh)
		}
	}
	for _, bh := range heads {
		if !isPrimaryBranch(bh.Name) {
			walk(bh)
		}
	}

	counts := make(map[string]int)
	for row := 0; row < h.Len(); row++ {
		hash := h.Record(row).Hash
		if name, ok := t.headByHash[hash]; ok {
			t.originByRow[row] = headOrigin(name)
		} else if name := inherited[row]; name != "" {
			t.originByRow[row] = inheritedOrigin(name)
		} else {
			t.originByRow[row] = syntheticOrigin(hash)
		}
		counts[t.originByRow[row].Name]++
	}

	for name, count := range counts {
		if isPrimaryBranch(name) {
			t.priority[name] = MaxBranchPriority
			continue
		}
		t.priority[name] = count
	}
	return t
}

// priorityFor returns the score for a resolved origin; unseen names
// score 1.
func (t *branchTable) priorityFor(o BranchOrigin) int {
	if p, ok := t.priority[o.Name]; ok {
		return p
	}
	return 1
}
