// Package layout turns a newest-first checkpoint history into a
// deterministic two-dimensional graph layout: a row and lane for every
// record, a stable color per branch, and typed connector edges between
// parent and child.
//
// The Engine runs a single forward pass over the rows. Branch heads
// claim lanes up front, every other record continues the lane its
// nearest child reserved for it, and merge commits try to settle
// between their parents' lanes. Lane contention resolves by branch
// priority with a configurable take-over premium. The LinearEngine is
// the degenerate single-column variant of the same contract.
//
// Layout is a pure function of its input: no I/O, no retained state
// between calls, identical output for identical input.
package layout
