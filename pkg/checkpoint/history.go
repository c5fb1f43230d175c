package checkpoint

import "fmt"

// History indexes a newest-first record list for layout. It resolves
// parent references against the input set, records child edges, and
// flags branch points. A parent hash that does not appear in the input
// is simply absent from the index: the referencing record still gets a
// row, it just has one fewer resolvable edge. Histories are built once
// per layout invocation and discarded afterwards.
//
// History never rejects its input. Use [History.Validate] to surface
// duplicate or empty hashes when the caller wants strict behavior.
type History struct {
	records    []Record
	rowByHash  map[string]int
	childRows  map[string][]int
	duplicates []string
	empties    int
}

// NewHistory builds the index for records. The slice is retained, not
// copied; callers must not mutate it while the History is in use.
// When the same hash appears twice, the later occurrence wins the index
// slot and the duplicate is remembered for Validate.
func NewHistory(records []Record) *History {
	h := &History{
		records:   records,
		rowByHash: make(map[string]int, len(records)),
		childRows: make(map[string][]int),
	}
	for row, r := range records {
		if r.Hash == "" {
			h.empties++
			continue
		}
		if _, seen := h.rowByHash[r.Hash]; seen {
			h.duplicates = append(h.duplicates, r.Hash)
		}
		h.rowByHash[r.Hash] = row
	}
	for row, r := range records {
		for _, p := range r.Parents {
			if _, ok := h.rowByHash[p]; ok {
				h.childRows[p] = append(h.childRows[p], row)
			}
		}
	}
	return h
}

// Validate reports duplicate or empty hashes in the input. The layout
// engine does not call this; it is an opt-in strictness check for
// callers that control their input source.
func (h *History) Validate() error {
	if h.empties > 0 {
		return fmt.Errorf("%d records: %w", h.empties, ErrEmptyHash)
	}
	if len(h.duplicates) > 0 {
		return fmt.Errorf("%q: %w", h.duplicates[0], ErrDuplicateHash)
	}
	return nil
}

// Len returns the number of input records.
func (h *History) Len() int { return len(h.records) }

// Record returns the record at the given row.
func (h *History) Record(row int) Record { return h.records[row] }

// Records returns the underlying newest-first record slice.
func (h *History) Records() []Record { return h.records }

// Row resolves a hash to its row index.
func (h *History) Row(hash string) (int, bool) {
	row, ok := h.rowByHash[hash]
	return row, ok
}

// ParentRows returns the rows of the record's resolvable parents, in
// parent-list order. Dangling parent hashes are dropped silently.
func (h *History) ParentRows(row int) []int {
	var rows []int
	for _, p := range h.records[row].Parents {
		if pr, ok := h.rowByHash[p]; ok {
			rows = append(rows, pr)
		}
	}
	return rows
}

// ChildRows returns the rows of records that list hash as a parent, in
// input order.
func (h *History) ChildRows(hash string) []int { return h.childRows[hash] }

// IsBranchPoint reports whether the checkpoint has more than one child,
// i.e. history diverges at it.
func (h *History) IsBranchPoint(hash string) bool { return len(h.childRows[hash]) > 1 }
