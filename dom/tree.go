package dom

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("element not found")
	ErrInvalidNode = errors.New("invalid node")
	ErrAttached    = errors.New("node already has a parent")
	ErrCycle       = errors.New("node cannot be attached under its own descendant")
)

// NodeID addresses an element in a Tree's arena.
type NodeID int

// NoNode is the absent parent of a root or detached node.
const NoNode NodeID = -1

type element struct {
	tag      string
	id       string
	text     string
	parent   NodeID
	children []NodeID
}

// Tree is a rooted element tree. Nodes are stored in an arena and never
// freed, so a NodeID stays valid after the node is detached or the tree is
// reset. Only nodes reachable from the root are part of the document.
type Tree struct {
	nodes []element
	root  NodeID
}

// New creates a document with the html/head/title/body skeleton.
func New() *Tree {
	t := &Tree{root: NoNode}
	t.root = t.skeleton()
	return t
}

func (t *Tree) skeleton() NodeID {
	html := t.NewElement("html", "html", "")
	head := t.NewElement("head", "head", "")
	title := t.NewElement("title", "title", "")
	body := t.NewElement("body", "body", "")
	t.attach(html, head, -1)
	t.attach(head, title, -1)
	t.attach(html, body, -1)
	return html
}

// NewElement allocates a detached element. An empty id defaults to the tag.
func (t *Tree) NewElement(tag, id, text string) NodeID {
	if id == "" {
		id = tag
	}
	t.nodes = append(t.nodes, element{tag: tag, id: id, text: text, parent: NoNode})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) valid(n NodeID) bool {
	return n >= 0 && int(n) < len(t.nodes)
}

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) Tag(n NodeID) string {
	if !t.valid(n) {
		return ""
	}
	return t.nodes[n].tag
}

func (t *Tree) ID(n NodeID) string {
	if !t.valid(n) {
		return ""
	}
	return t.nodes[n].id
}

func (t *Tree) Text(n NodeID) string {
	if !t.valid(n) {
		return ""
	}
	return t.nodes[n].text
}

func (t *Tree) SetID(n NodeID, id string) {
	if t.valid(n) {
		t.nodes[n].id = id
	}
}

func (t *Tree) SetText(n NodeID, text string) {
	if t.valid(n) {
		t.nodes[n].text = text
	}
}

// Parent returns the parent of n, or NoNode for the root and detached nodes.
func (t *Tree) Parent(n NodeID) NodeID {
	if !t.valid(n) {
		return NoNode
	}
	return t.nodes[n].parent
}

// Children returns a copy of n's children in order.
func (t *Tree) Children(n NodeID) []NodeID {
	if !t.valid(n) {
		return nil
	}
	out := make([]NodeID, len(t.nodes[n].children))
	copy(out, t.nodes[n].children)
	return out
}

// Len returns the number of element children of n.
func (t *Tree) Len(n NodeID) int {
	if !t.valid(n) {
		return 0
	}
	return len(t.nodes[n].children)
}

// IndexOf returns child's position under parent, or -1.
func (t *Tree) IndexOf(parent, child NodeID) int {
	if !t.valid(parent) {
		return -1
	}
	for i, c := range t.nodes[parent].children {
		if c == child {
			return i
		}
	}
	return -1
}

// Head returns the first "head" child of the root, or NoNode.
func (t *Tree) Head() NodeID { return t.rootChild("head") }

// Body returns the first "body" child of the root, or NoNode.
func (t *Tree) Body() NodeID { return t.rootChild("body") }

func (t *Tree) rootChild(tag string) NodeID {
	for _, c := range t.Children(t.root) {
		if t.nodes[c].tag == tag {
			return c
		}
	}
	return NoNode
}

// FindByID returns the first element in depth-first pre-order whose id
// matches. Duplicate ids are allowed; later matches are shadowed.
func (t *Tree) FindByID(id string) (NodeID, error) {
	found := NoNode
	t.Walk(func(n NodeID, _ int) bool {
		if t.nodes[n].id == id {
			found = n
			return false
		}
		return true
	})
	if found == NoNode {
		return NoNode, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return found, nil
}

// CountID returns how many reachable elements carry id.
func (t *Tree) CountID(id string) int {
	count := 0
	t.Walk(func(n NodeID, _ int) bool {
		if t.nodes[n].id == id {
			count++
		}
		return true
	})
	return count
}

// Walk visits every reachable element in depth-first pre-order. Returning
// false from fn stops the walk.
func (t *Tree) Walk(fn func(n NodeID, depth int) bool) {
	if !t.valid(t.root) {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(n NodeID, depth int, fn func(NodeID, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range t.nodes[n].children {
		if !t.walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// AddChild appends child as the last child of parent.
func (t *Tree) AddChild(parent, child NodeID) error {
	return t.InsertChild(parent, child, t.Len(parent))
}

// InsertChild places child at index under parent, shifting later siblings
// right. The index is clamped to [0, len(children)].
func (t *Tree) InsertChild(parent, child NodeID, index int) error {
	if !t.valid(parent) || !t.valid(child) {
		return ErrInvalidNode
	}
	if t.nodes[child].parent != NoNode || child == t.root {
		return ErrAttached
	}
	for a := parent; a != NoNode; a = t.nodes[a].parent {
		if a == child {
			return ErrCycle
		}
	}
	t.attach(parent, child, index)
	return nil
}

func (t *Tree) attach(parent, child NodeID, index int) {
	kids := t.nodes[parent].children
	if index < 0 || index > len(kids) {
		index = len(kids)
	}
	kids = append(kids, NoNode)
	copy(kids[index+1:], kids[index:])
	kids[index] = child
	t.nodes[parent].children = kids
	t.nodes[child].parent = parent
}

// RemoveChild detaches child from parent by identity and returns the index
// it occupied. It is a no-op returning -1 when child is not under parent.
func (t *Tree) RemoveChild(parent, child NodeID) int {
	i := t.IndexOf(parent, child)
	if i < 0 {
		return -1
	}
	kids := t.nodes[parent].children
	t.nodes[parent].children = append(kids[:i:i], kids[i+1:]...)
	t.nodes[child].parent = NoNode
	return i
}

// Reset replaces the document with a fresh skeleton and returns the old
// root, which stays allocated so it can be reinstated with SetRoot.
func (t *Tree) Reset() NodeID {
	prev := t.root
	t.root = t.skeleton()
	return prev
}

// SetRoot makes n the document root. n must be detached.
func (t *Tree) SetRoot(n NodeID) error {
	if !t.valid(n) {
		return ErrInvalidNode
	}
	if t.nodes[n].parent != NoNode {
		return ErrAttached
	}
	t.root = n
	return nil
}
