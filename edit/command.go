package edit

import (
	"fmt"

	"github.com/alimasry/go-html-editor/dom"
)

// Command is a reversible edit of a document tree. Identifiers are resolved
// when Execute runs, so a command can be replayed on redo as long as its
// targets still resolve. Undo after a failed Execute is a no-op.
//
// The set of commands is closed: Insert, Append, RenameID, EditText, Delete
// and Init.
type Command interface {
	Execute() error
	Undo()
	// Done reports whether the last Execute took effect and has not been
	// undone since.
	Done() bool
	String() string

	base() *cmdBase
}

type cmdBase struct {
	tree   *dom.Tree
	strict bool
	done   bool
}

func (b *cmdBase) base() *cmdBase { return b }

func (b *cmdBase) Done() bool { return b.done }

// claim fails in strict mode when id already resolves.
func (b *cmdBase) claim(op, id string) error {
	if b.strict && b.tree.CountID(id) > 0 {
		return fmt.Errorf("%s: %q: %w", op, id, ErrDuplicateID)
	}
	return nil
}

// detach removes n from wherever it currently hangs.
func (b *cmdBase) detach(n dom.NodeID) {
	if p := b.tree.Parent(n); p != dom.NoNode {
		b.tree.RemoveChild(p, n)
	}
}

// Insert places a new element immediately before the element with id
// BeforeID, under that element's parent.
type Insert struct {
	cmdBase
	node     dom.NodeID
	beforeID string
	parent   dom.NodeID
	index    int
}

func NewInsert(t *dom.Tree, node dom.NodeID, beforeID string) *Insert {
	return &Insert{cmdBase: cmdBase{tree: t}, node: node, beforeID: beforeID, parent: dom.NoNode}
}

func (c *Insert) Execute() error {
	c.done = false
	target, err := c.tree.FindByID(c.beforeID)
	if err != nil {
		return &LookupError{Op: "insert", ID: c.beforeID}
	}
	parent := c.tree.Parent(target)
	if parent == dom.NoNode {
		return fmt.Errorf("insert before %q: %w", c.beforeID, ErrNoParent)
	}
	if err := c.claim("insert", c.tree.ID(c.node)); err != nil {
		return err
	}
	index := c.tree.IndexOf(parent, target)
	if err := c.tree.InsertChild(parent, c.node, index); err != nil {
		return fmt.Errorf("insert before %q: %w", c.beforeID, err)
	}
	c.parent, c.index = parent, index
	c.done = true
	return nil
}

// Undo removes the inserted node by identity, wherever it is now.
func (c *Insert) Undo() {
	if !c.done {
		return
	}
	c.detach(c.node)
	c.done = false
}

func (c *Insert) Node() dom.NodeID { return c.node }

func (c *Insert) String() string {
	return fmt.Sprintf("insert <%s> %q before %q", c.tree.Tag(c.node), c.tree.ID(c.node), c.beforeID)
}

// Append adds a new element as the last child of the element with id
// ParentID.
type Append struct {
	cmdBase
	node     dom.NodeID
	parentID string
	parent   dom.NodeID
}

func NewAppend(t *dom.Tree, node dom.NodeID, parentID string) *Append {
	return &Append{cmdBase: cmdBase{tree: t}, node: node, parentID: parentID, parent: dom.NoNode}
}

func (c *Append) Execute() error {
	c.done = false
	parent, err := c.tree.FindByID(c.parentID)
	if err != nil {
		return &LookupError{Op: "append", ID: c.parentID}
	}
	if err := c.claim("append", c.tree.ID(c.node)); err != nil {
		return err
	}
	if err := c.tree.AddChild(parent, c.node); err != nil {
		return fmt.Errorf("append to %q: %w", c.parentID, err)
	}
	c.parent = parent
	c.done = true
	return nil
}

func (c *Append) Undo() {
	if !c.done {
		return
	}
	c.detach(c.node)
	c.done = false
}

func (c *Append) Node() dom.NodeID { return c.node }

func (c *Append) String() string {
	return fmt.Sprintf("append <%s> %q to %q", c.tree.Tag(c.node), c.tree.ID(c.node), c.parentID)
}

// RenameID changes an element's identifier.
type RenameID struct {
	cmdBase
	oldID   string
	newID   string
	element dom.NodeID
}

func NewRenameID(t *dom.Tree, oldID, newID string) *RenameID {
	return &RenameID{cmdBase: cmdBase{tree: t}, oldID: oldID, newID: newID, element: dom.NoNode}
}

func (c *RenameID) Execute() error {
	c.done = false
	n, err := c.tree.FindByID(c.oldID)
	if err != nil {
		return &LookupError{Op: "edit-id", ID: c.oldID}
	}
	if c.newID != c.oldID {
		if err := c.claim("edit-id", c.newID); err != nil {
			return err
		}
	}
	c.element = n
	c.tree.SetID(n, c.newID)
	c.done = true
	return nil
}

func (c *RenameID) Undo() {
	if !c.done {
		return
	}
	c.tree.SetID(c.element, c.oldID)
	c.done = false
}

// Element is the renamed element, once executed.
func (c *RenameID) Element() dom.NodeID { return c.element }

func (c *RenameID) String() string {
	return fmt.Sprintf("edit-id %q -> %q", c.oldID, c.newID)
}

// EditText replaces an element's text content.
type EditText struct {
	cmdBase
	id      string
	newText string
	oldText string
	element dom.NodeID
}

func NewEditText(t *dom.Tree, id, text string) *EditText {
	return &EditText{cmdBase: cmdBase{tree: t}, id: id, newText: text, element: dom.NoNode}
}

func (c *EditText) Execute() error {
	c.done = false
	n, err := c.tree.FindByID(c.id)
	if err != nil {
		return &LookupError{Op: "edit-text", ID: c.id}
	}
	c.element = n
	c.oldText = c.tree.Text(n)
	c.tree.SetText(n, c.newText)
	c.done = true
	return nil
}

func (c *EditText) Undo() {
	if !c.done {
		return
	}
	c.tree.SetText(c.element, c.oldText)
	c.done = false
}

func (c *EditText) Element() dom.NodeID { return c.element }

func (c *EditText) String() string {
	return fmt.Sprintf("edit-text %q", c.id)
}

// Delete detaches an element from its parent. Undo restores it at the same
// index.
type Delete struct {
	cmdBase
	id      string
	element dom.NodeID
	parent  dom.NodeID
	index   int
}

func NewDelete(t *dom.Tree, id string) *Delete {
	return &Delete{cmdBase: cmdBase{tree: t}, id: id, element: dom.NoNode, parent: dom.NoNode}
}

func (c *Delete) Execute() error {
	c.done = false
	n, err := c.tree.FindByID(c.id)
	if err != nil {
		return &LookupError{Op: "delete", ID: c.id}
	}
	parent := c.tree.Parent(n)
	if parent == dom.NoNode {
		return fmt.Errorf("delete %q: %w", c.id, ErrNoParent)
	}
	c.element, c.parent = n, parent
	c.index = c.tree.RemoveChild(parent, n)
	c.done = true
	return nil
}

func (c *Delete) Undo() {
	if !c.done {
		return
	}
	// The slot may have moved if siblings changed; InsertChild clamps.
	c.tree.InsertChild(c.parent, c.element, c.index)
	c.done = false
}

// Element returns the deleted node, valid after a successful Execute.
func (c *Delete) Element() dom.NodeID { return c.element }

func (c *Delete) String() string {
	return fmt.Sprintf("delete %q", c.id)
}

// Init resets the document to the empty head/body skeleton.
type Init struct {
	cmdBase
	prev dom.NodeID
}

func NewInit(t *dom.Tree) *Init {
	return &Init{cmdBase: cmdBase{tree: t}, prev: dom.NoNode}
}

func (c *Init) Execute() error {
	c.done = false
	c.prev = c.tree.Reset()
	c.done = true
	return nil
}

func (c *Init) Undo() {
	if !c.done {
		return
	}
	if err := c.tree.SetRoot(c.prev); err != nil {
		return
	}
	c.done = false
}

func (c *Init) String() string { return "init" }
