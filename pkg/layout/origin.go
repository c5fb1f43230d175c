package layout

// OriginKind distinguishes how a checkpoint's branch name was resolved.
type OriginKind int

const (
	// OriginHead means the checkpoint is itself a branch head and takes
	// that branch's name directly.
	OriginHead OriginKind = iota
	// OriginInherited means the name was inherited along the primary
	// line of descent from a branch head.
	OriginInherited
	// OriginSynthetic means no ancestry information reached the
	// checkpoint; the name is synthesized from its hash prefix.
	OriginSynthetic
)

// BranchOrigin is a branch name together with how it was resolved.
// It is computed once per checkpoint and carried forward, so the
// fallthrough (head, else inherited, else synthetic) happens in exactly
// one place.
type BranchOrigin struct {
	Kind OriginKind
	Name string
}

func headOrigin(name string) BranchOrigin      { return BranchOrigin{Kind: OriginHead, Name: name} }
func inheritedOrigin(name string) BranchOrigin { return BranchOrigin{Kind: OriginInherited, Name: name} }

func syntheticOrigin(hash string) BranchOrigin {
	prefix := hash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return BranchOrigin{Kind: OriginSynthetic, Name: "commit-" + prefix}
}
