package dom

// Snapshot is a detached value copy of an element subtree.
type Snapshot struct {
	Tag      string
	ID       string
	Text     string
	Children []Snapshot
}

// Snapshot copies the reachable document.
func (t *Tree) Snapshot() Snapshot {
	return t.SnapshotOf(t.root)
}

// SnapshotOf copies the subtree rooted at n.
func (t *Tree) SnapshotOf(n NodeID) Snapshot {
	if !t.valid(n) {
		return Snapshot{}
	}
	e := t.nodes[n]
	s := Snapshot{Tag: e.tag, ID: e.id, Text: e.text}
	for _, c := range e.children {
		s.Children = append(s.Children, t.SnapshotOf(c))
	}
	return s
}

// Build allocates the elements described by s as a detached subtree and
// returns its top node.
func (t *Tree) Build(s Snapshot) NodeID {
	n := t.NewElement(s.Tag, s.ID, s.Text)
	for _, c := range s.Children {
		t.attach(n, t.Build(c), -1)
	}
	return n
}
