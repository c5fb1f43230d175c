// Package checkpoint defines the data contract between a checkpoint
// (version-control) backend and the layout engine: immutable commit
// records, branch heads, and an indexed History view over a
// newest-first record list.
//
// The package performs no I/O and never mutates its input. Malformed
// references are tolerated by design: a parent hash that resolves to no
// record is dropped from the edge set, duplicate hashes keep the later
// occurrence, and both conditions are reported only by the explicit
// [History.Validate] call.
package checkpoint
