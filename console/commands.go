package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alimasry/go-html-editor/edit"
	"github.com/alimasry/go-html-editor/render"
	"github.com/alimasry/go-html-editor/spell"
	"github.com/alimasry/go-html-editor/workspace"
)

func (c *Console) cmdLoad(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.usage("load <file>")
		return
	}
	name := args[0]
	status, err := c.ws.Load(ctx, name)
	if err != nil {
		c.fail(err)
		return
	}
	switch status {
	case workspace.AlreadyOpen:
		c.printf("File '%s' is already loaded.\n", name)
	case workspace.Created:
		c.printf("Initialized new document for '%s'.\n", name)
	default:
		c.printf("Loaded file: %s\n", name)
	}
}

func (c *Console) cmdSave(ctx context.Context, args []string) {
	if len(args) > 1 {
		c.usage("save [file]")
		return
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	c.save(ctx, name)
}

func (c *Console) save(ctx context.Context, name string) bool {
	if err := c.ws.Save(ctx, name); err != nil {
		c.fail(err)
		return false
	}
	if name == "" {
		name, _, _ = c.ws.Active()
	}
	c.printf("Saved: %s\n", name)
	return true
}

func (c *Console) cmdClose(ctx context.Context, args []string) {
	if len(args) != 0 {
		c.usage("close")
		return
	}
	name, err := c.ws.Close(false)
	if errors.Is(err, workspace.ErrUnsaved) {
		if c.confirm == nil {
			c.printf("File '%s' has unsaved changes. Save it first.\n", name)
			return
		}
		if c.confirm(fmt.Sprintf("File '%s' has unsaved changes. Save before closing?", name)) {
			if !c.save(ctx, name) {
				return
			}
		}
		name, err = c.ws.Close(true)
	}
	if err != nil {
		c.fail(err)
		return
	}
	c.printf("Closed file: %s\n", name)
}

func (c *Console) cmdEditorList(args []string) {
	if len(args) != 0 {
		c.usage("editor-list")
		return
	}
	entries := c.ws.List()
	if len(entries) == 0 {
		c.printf("No open editors.\n")
		return
	}
	for _, e := range entries {
		indicator, modified := " ", ""
		if e.Active {
			indicator = ">"
		}
		if e.Modified {
			modified = "*"
		}
		c.printf("%s %s%s\n", indicator, e.Name, modified)
	}
}

func (c *Console) cmdEdit(args []string) {
	if len(args) != 1 {
		c.usage("edit <file>")
		return
	}
	if err := c.ws.Switch(args[0]); err != nil {
		c.fail(err)
		return
	}
	c.printf("Switched to editor: %s\n", args[0])
}

func (c *Console) cmdList(ctx context.Context, args []string) {
	if len(args) != 0 {
		c.usage("list")
		return
	}
	docs, err := c.ws.Documents(ctx)
	if err != nil {
		c.fail(err)
		return
	}
	if len(docs) == 0 {
		c.printf("No stored documents.\n")
		return
	}
	for _, d := range docs {
		if d.UpdatedAt.IsZero() {
			c.printf("  %s\n", d.Name)
			continue
		}
		c.printf("  %s  %s\n", d.Name, d.UpdatedAt.Format(time.DateTime))
	}
}

func (c *Console) cmdDirTree(args []string) {
	if len(args) != 0 {
		c.usage("dir-tree")
		return
	}
	if root, ok := c.fileTree(); ok {
		c.printf("%s\n", render.TreeFiles(root))
	}
}

func (c *Console) cmdDirIndent(args []string) {
	if len(args) > 1 {
		c.usage("dir-indent [size]")
		return
	}
	root, ok := c.fileTree()
	if !ok {
		return
	}
	c.setIndent(args)
	c.printf("%s", render.IndentFiles(root, c.indent))
}

func (c *Console) fileTree() (*render.FileNode, bool) {
	names := c.ws.Names()
	if len(names) == 0 {
		c.printf("No open editors.\n")
		return nil, false
	}
	active, _, _ := c.ws.Active()
	return render.FileTree(names, active), true
}

// setIndent applies an optional size argument. The size is kept for later
// calls; an invalid one is reported and ignored.
func (c *Console) setIndent(args []string) {
	if len(args) == 0 {
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		c.printf("Invalid indent value. Using %d.\n", c.indent)
		return
	}
	c.indent = n
}

// active returns the active session, reporting when there is none.
func (c *Console) active() (*edit.Session, bool) {
	_, s, err := c.ws.Active()
	if err != nil {
		c.printf("No active document. Use 'load <file>' first.\n")
		return nil, false
	}
	return s, true
}

// apply runs cmd and prints done's confirmation when it succeeds.
func (c *Console) apply(s *edit.Session, cmd edit.Command, done func() string) {
	if err := s.Apply(cmd); err != nil {
		c.fail(err)
		return
	}
	c.printf("%s\n", done())
}

func (c *Console) cmdInsert(args []string) {
	if len(args) < 3 {
		c.usage("insert <tag> <id> <beforeId> [text]")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	t := s.Tree()
	cmd := edit.NewInsert(t, t.NewElement(args[0], args[1], strings.Join(args[3:], " ")), args[2])
	c.apply(s, cmd, func() string {
		return fmt.Sprintf("Inserted <%s> with id '%s' before '%s'.", t.Tag(cmd.Node()), t.ID(cmd.Node()), args[2])
	})
}

func (c *Console) cmdAppend(args []string) {
	if len(args) < 3 {
		c.usage("append <tag> <id> <parentId> [text]")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	t := s.Tree()
	cmd := edit.NewAppend(t, t.NewElement(args[0], args[1], strings.Join(args[3:], " ")), args[2])
	c.apply(s, cmd, func() string {
		return fmt.Sprintf("Appended <%s> with id '%s' to '%s'.", t.Tag(cmd.Node()), t.ID(cmd.Node()), args[2])
	})
}

func (c *Console) cmdEditID(args []string) {
	if len(args) != 2 {
		c.usage("edit-id <oldId> <newId>")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	t := s.Tree()
	cmd := edit.NewRenameID(t, args[0], args[1])
	c.apply(s, cmd, func() string {
		return fmt.Sprintf("Changed id of <%s> from '%s' to '%s'.", t.Tag(cmd.Element()), args[0], args[1])
	})
}

func (c *Console) cmdEditText(args []string) {
	if len(args) < 1 {
		c.usage("edit-text <id> [text]")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	t := s.Tree()
	cmd := edit.NewEditText(t, args[0], strings.Join(args[1:], " "))
	c.apply(s, cmd, func() string {
		return fmt.Sprintf("Changed text of <%s> with id '%s'.", t.Tag(cmd.Element()), args[0])
	})
}

func (c *Console) cmdDelete(args []string) {
	if len(args) != 1 {
		c.usage("delete <id>")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	t := s.Tree()
	cmd := edit.NewDelete(t, args[0])
	c.apply(s, cmd, func() string {
		return fmt.Sprintf("Deleted <%s> with id '%s'.", t.Tag(cmd.Element()), args[0])
	})
}

func (c *Console) cmdInit(args []string) {
	if len(args) != 0 {
		c.usage("init")
		return
	}
	if s, ok := c.active(); ok {
		c.apply(s, edit.NewInit(s.Tree()), func() string { return "Initialized empty document." })
	}
}

func (c *Console) cmdUndo(args []string) {
	if len(args) != 0 {
		c.usage("undo")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	cmd, err := s.Undo()
	if errors.Is(err, edit.ErrEmptyHistory) {
		c.printf("Nothing to undo.\n")
		return
	}
	c.printf("Undo: %s\n", cmd)
}

func (c *Console) cmdRedo(args []string) {
	if len(args) != 0 {
		c.usage("redo")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	cmd, err := s.Redo()
	switch {
	case errors.Is(err, edit.ErrEmptyHistory):
		c.printf("Nothing to redo.\n")
	case err != nil:
		c.fail(err)
	default:
		c.printf("Redo: %s\n", cmd)
	}
}

func (c *Console) cmdShowID(args []string) {
	if len(args) != 1 {
		c.usage("showid <true|false>")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	switch strings.ToLower(args[0]) {
	case "true":
		s.SetShowID(true)
	case "false":
		s.SetShowID(false)
	default:
		c.printf("Invalid value for showid. Use 'true' or 'false'.\n")
		return
	}
	c.printf("showId set to %t.\n", s.ShowID())
}

func (c *Console) cmdPrintTree(args []string) {
	if len(args) != 0 {
		c.usage("print-tree")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	view := render.TreeView{}
	if c.markTree {
		view.Flagged = spell.Flagged(c.checker.Check(s.Tree()))
	}
	c.printf("%s\n", render.Display(view, s.Tree(), s.ShowID()))
}

func (c *Console) cmdPrintIndent(args []string) {
	if len(args) > 1 {
		c.usage("print-indent [size]")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	c.setIndent(args)
	c.printf("%s", render.Display(render.NewIndentView(c.indent), s.Tree(), s.ShowID()))
}

func (c *Console) cmdSpellCheck(args []string) {
	if len(args) != 0 {
		c.usage("spell-check")
		return
	}
	s, ok := c.active()
	if !ok {
		return
	}
	found := c.checker.Check(s.Tree())
	if len(found) == 0 {
		c.printf("No spelling errors found.\n")
		return
	}
	c.printf("Spelling errors:\n")
	for _, m := range found {
		line := fmt.Sprintf("  %s: %s", m.ElementID, m.Word)
		if sugg := c.checker.Suggest(m.Word); len(sugg) > 0 {
			line += " (did you mean: " + strings.Join(sugg, ", ") + "?)"
		}
		c.printf("%s\n", line)
	}
}
