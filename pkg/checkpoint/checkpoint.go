package checkpoint

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateHash is returned by [History.Validate] when two input
	// records carry the same hash. The layout pipeline itself tolerates
	// duplicates (the later record wins), so this is surfaced as an
	// explicit validation step rather than a construction failure.
	ErrDuplicateHash = errors.New("duplicate checkpoint hash")

	// ErrEmptyHash is returned by [History.Validate] when a record has an
	// empty hash. Such records can never be linked to by a parent edge.
	ErrEmptyHash = errors.New("checkpoint hash must not be empty")
)

// Record is an immutable checkpoint (commit) as supplied by the
// version-control backend. Records arrive already sorted newest-first;
// a record's position in the input slice is its display row.
type Record struct {
	// Hash is the unique content hash identifying this checkpoint.
	Hash string `json:"hash" bson:"hash"`

	// Parents lists parent hashes in order. The first entry is the
	// primary parent; empty for a root checkpoint.
	Parents []string `json:"parents" bson:"parents"`

	// Description is the checkpoint message (first line).
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	// Author is the checkpoint author's display name.
	Author string `json:"author,omitempty" bson:"author,omitempty"`

	// Timestamp is when the checkpoint was created. Row order is
	// positional; timestamps are carried for display only.
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// IsRoot reports whether the record has no parents.
func (r Record) IsRoot() bool { return len(r.Parents) == 0 }

// IsMerge reports whether the record has more than one parent.
func (r Record) IsMerge() bool { return len(r.Parents) > 1 }

// PrimaryParent returns the first parent hash, or "" for a root.
func (r Record) PrimaryParent() string {
	if len(r.Parents) == 0 {
		return ""
	}
	return r.Parents[0]
}

// ShortHash returns the first eight characters of the hash, or the whole
// hash when it is shorter.
func (r Record) ShortHash() string {
	if len(r.Hash) <= 8 {
		return r.Hash
	}
	return r.Hash[:8]
}

// BranchHead maps a branch name to the hash of the checkpoint it points to.
type BranchHead struct {
	Name string `json:"name" bson:"name"`
	Hash string `json:"hash" bson:"hash"`
}
