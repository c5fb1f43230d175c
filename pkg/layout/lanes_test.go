package layout

import "testing"

func TestLaneTable_ClaimHeadPrefersFree(t *testing.T) {
	lt := &laneTable{}
	lt.extend()
	lt.occupy(0, "x", "feature", 5)

	lane, ok := lt.claimHead(100, 0.2, 10)
	if !ok || lane != 1 {
		t.Errorf("claimHead() = %d, %v; want lane 1 (grow before take-over)", lane, ok)
	}
}

func TestLaneTable_ClaimHeadTakeover(t *testing.T) {
	lt := &laneTable{}
	lt.extend()
	lt.occupy(0, "x", "feature", 5)

	// Window full: take-over requires beating 5 by more than 20%.
	if _, ok := lt.claimHead(6, 0.2, 1); ok {
		t.Error("claimHead(6) succeeded, want failure against occupant 5 at 20% premium")
	}
	lane, ok := lt.claimHead(7, 0.2, 1)
	if !ok || lane != 0 {
		t.Errorf("claimHead(7) = %d, %v; want take-over of lane 0", lane, ok)
	}
}

func TestLaneTable_ClaimAny(t *testing.T) {
	lt := &laneTable{}
	lt.extend()
	lt.extend()
	lt.occupy(0, "x", "main", 10)

	lane, ok := lt.claimAny(1, 0.5)
	if !ok || lane != 1 {
		t.Errorf("claimAny() = %d, %v; want free lane 1", lane, ok)
	}

	lt.occupy(1, "y", "feature", 10)
	if _, ok := lt.claimAny(15, 0.5); ok {
		t.Error("claimAny(15) succeeded, want failure at 50% premium over 10")
	}
	lane, ok = lt.claimAny(16, 0.5)
	if !ok || lane != 0 {
		t.Errorf("claimAny(16) = %d, %v; want take-over of lane 0", lane, ok)
	}
}

func TestLaneTable_ReservedForPrefersBranch(t *testing.T) {
	lt := &laneTable{}
	lt.extend()
	lt.extend()
	lt.occupy(0, "p", "feature", 1)
	lt.occupy(1, "p", "main", 100)

	lane, ok := lt.reservedFor("p", "main")
	if !ok || lane != 1 {
		t.Errorf("reservedFor(p, main) = %d, %v; want branch-matching lane 1", lane, ok)
	}
	lane, ok = lt.reservedFor("p", "hotfix")
	if !ok || lane != 0 {
		t.Errorf("reservedFor(p, hotfix) = %d, %v; want leftmost lane 0", lane, ok)
	}
	if _, ok := lt.reservedFor("q", "main"); ok {
		t.Error("reservedFor(q) succeeded, want no reservation")
	}
}

func TestLaneTable_ReleaseAllFor(t *testing.T) {
	lt := &laneTable{}
	lt.extend()
	lt.extend()
	lt.extend()
	lt.occupy(0, "p", "main", 100)
	lt.occupy(1, "p", "feature", 1)
	lt.occupy(2, "q", "topic", 1)

	lt.releaseAllFor("p", 0)

	if lt.isFree(0) {
		t.Error("kept lane 0 was released")
	}
	if !lt.isFree(1) {
		t.Error("sibling lane 1 still occupied")
	}
	if lt.isFree(2) {
		t.Error("unrelated lane 2 was released")
	}
}

func TestLaneTable_FreeBetween(t *testing.T) {
	lt := &laneTable{}
	for i := 0; i < 4; i++ {
		lt.extend()
	}
	lt.occupy(0, "a", "main", 1)
	lt.occupy(3, "b", "feature", 1)
	lt.occupy(1, "c", "topic", 1)

	lane, ok := lt.freeBetween(0, 3)
	if !ok || lane != 2 {
		t.Errorf("freeBetween(0, 3) = %d, %v; want 2", lane, ok)
	}
	lt.occupy(2, "d", "other", 1)
	if _, ok := lt.freeBetween(0, 3); ok {
		t.Error("freeBetween(0, 3) succeeded with all middle lanes occupied")
	}
}
