package layout

// laneSlot tracks the live occupant of one lane during the forward
// pass. An occupied slot is waiting for nextHash: the primary parent of
// the last checkpoint drawn in the lane. The slot frees when that
// checkpoint is placed (in this lane or another) or when the line of
// descent ends.
type laneSlot struct {
	occupied bool
	nextHash string
	branch   string
	priority int
}

// laneTable is the per-call lane occupancy state. It is allocated once
// per layout invocation and discarded with it; slots only ever
// transition free→occupied or occupied→free within the single pass.
type laneTable struct {
	slots []laneSlot
}

func (t *laneTable) isFree(lane int) bool {
	return lane >= 0 && lane < len(t.slots) && !t.slots[lane].occupied
}

// occupy marks lane as waiting for nextHash on behalf of branch.
func (t *laneTable) occupy(lane int, nextHash, branch string, priority int) {
	t.slots[lane] = laneSlot{occupied: true, nextHash: nextHash, branch: branch, priority: priority}
}

func (t *laneTable) release(lane int) {
	t.slots[lane] = laneSlot{}
}

// extend appends a fresh lane and returns its index.
func (t *laneTable) extend() int {
	t.slots = append(t.slots, laneSlot{})
	return len(t.slots) - 1
}

// reservedFor returns the lane waiting for hash, preferring a lane held
// under the given branch name and falling back to the leftmost
// reservation. Returns -1, false when no lane is waiting.
func (t *laneTable) reservedFor(hash, branch string) (int, bool) {
	leftmost := -1
	for lane, s := range t.slots {
		if !s.occupied || s.nextHash != hash {
			continue
		}
		if s.branch == branch {
			return lane, true
		}
		if leftmost < 0 {
			leftmost = lane
		}
	}
	return leftmost, leftmost >= 0
}

// releaseAllFor frees every lane waiting for hash except keep. Lanes of
// non-primary children terminate at the shared parent's row this way.
func (t *laneTable) releaseAllFor(hash string, keep int) {
	for lane, s := range t.slots {
		if lane != keep && s.occupied && s.nextHash == hash {
			t.release(lane)
		}
	}
}

// claimHead performs the lane search for branch heads: scan left to
// right within the lookahead window, taking the first unoccupied lane
// (growing the table counts as unoccupied), and only once the whole
// window is occupied consider a take-over against the given premium.
// Fails only when the window is full of better-entrenched occupants.
func (t *laneTable) claimHead(priority int, premium float64, lookahead int) (int, bool) {
	if lookahead <= 0 {
		lookahead = len(t.slots) + 1
	}
	for lane := 0; lane < len(t.slots) && lane < lookahead; lane++ {
		if !t.slots[lane].occupied {
			return lane, true
		}
	}
	if len(t.slots) < lookahead {
		return t.extend(), true
	}
	for lane := 0; lane < len(t.slots) && lane < lookahead; lane++ {
		if beats(priority, t.slots[lane].priority, premium) {
			return lane, true
		}
	}
	return -1, false
}

// claimAny is the last-resort search: first entirely free lane in the
// current table, else a take-over at the (stricter) premium. The caller
// extends the table when both fail.
func (t *laneTable) claimAny(priority int, premium float64) (int, bool) {
	for lane, s := range t.slots {
		if !s.occupied {
			return lane, true
		}
	}
	for lane, s := range t.slots {
		if beats(priority, s.priority, premium) {
			return lane, true
		}
	}
	return -1, false
}

// freeBetween returns the leftmost unoccupied lane strictly between lo
// and hi.
func (t *laneTable) freeBetween(lo, hi int) (int, bool) {
	for lane := lo + 1; lane < hi && lane < len(t.slots); lane++ {
		if !t.slots[lane].occupied {
			return lane, true
		}
	}
	return -1, false
}

// beats reports whether a claimant priority exceeds an occupant's by
// the required premium (0.2 requires a 20% higher score).
func beats(claimant, occupant int, premium float64) bool {
	return float64(claimant) > float64(occupant)*(1+premium)
}
