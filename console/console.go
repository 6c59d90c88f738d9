// Package console is the line-oriented front end of the editor. Each line
// names one command; results and user-facing failures are written to the
// console's output and never stop the loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/render"
	"github.com/alimasry/go-html-editor/spell"
	"github.com/alimasry/go-html-editor/workspace"
)

// Prompt is written before each line read by Run.
const Prompt = "> "

// ConfirmFunc asks a yes/no question and reports the answer.
type ConfirmFunc func(question string) bool

type Option func(*Console)

// WithChecker sets the spell checker. The default uses the built-in
// dictionary.
func WithChecker(c spell.Checker) Option { return func(con *Console) { con.checker = c } }

// WithIndent sets the initial print-indent size.
func WithIndent(n int) Option { return func(con *Console) { con.indent = n } }

// WithMarkTree makes print-tree mark misspelled nodes.
func WithMarkTree(mark bool) Option { return func(con *Console) { con.markTree = mark } }

// WithConfirm sets how unsaved changes are confirmed. Without one, closing
// a modified document is refused.
func WithConfirm(f ConfirmFunc) Option { return func(con *Console) { con.confirm = f } }

func WithLogger(l *zap.Logger) Option { return func(con *Console) { con.logger = l } }

// Console dispatches command lines against a workspace.
type Console struct {
	ws       *workspace.Workspace
	out      io.Writer
	checker  spell.Checker
	indent   int
	markTree bool
	confirm  ConfirmFunc
	logger   *zap.Logger
}

func New(ws *workspace.Workspace, out io.Writer, opts ...Option) *Console {
	c := &Console{
		ws:     ws,
		out:    out,
		indent: render.DefaultIndent,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.checker == nil {
		c.checker = spell.NewChecker(nil)
	}
	if c.indent <= 0 {
		c.indent = render.DefaultIndent
	}
	return c
}

func (c *Console) Workspace() *workspace.Workspace { return c.ws }

// Restore reopens the session saved by the last exit, if any.
func (c *Console) Restore(ctx context.Context) {
	if err := c.ws.RestoreSaved(ctx); err != nil {
		c.printf("Some files could not be restored: %v\n", err)
	}
	if names := c.ws.Names(); len(names) > 0 {
		active, _, _ := c.ws.Active()
		c.printf("Restored session: %s (active: %s)\n", strings.Join(names, ", "), active)
	}
}

// Run reads lines from in until exit, end of input or ctx is done. End of
// input behaves like exit. Unless a confirm function was set, confirmations
// read their answer from in as well.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	if c.confirm == nil {
		c.confirm = func(q string) bool {
			c.printf("%s (y/n): ", q)
			if !sc.Scan() {
				return false
			}
			return strings.EqualFold(strings.TrimSpace(sc.Text()), "y")
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s", Prompt)
		if !sc.Scan() {
			c.printf("\n")
			c.exit(ctx)
			return sc.Err()
		}
		if !c.Exec(ctx, sc.Text()) {
			return nil
		}
	}
}

// Exec runs one command line. It returns false once the line asked to
// exit.
func (c *Console) Exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	c.logger.Debug("exec", zap.String("command", cmd), zap.Strings("args", args))

	switch cmd {
	case "exit", "quit":
		c.exit(ctx)
		return false
	case "help":
		c.printf("%s", helpText)

	case "load":
		c.cmdLoad(ctx, args)
	case "save":
		c.cmdSave(ctx, args)
	case "close":
		c.cmdClose(ctx, args)
	case "editor-list":
		c.cmdEditorList(args)
	case "edit":
		c.cmdEdit(args)
	case "list":
		c.cmdList(ctx, args)
	case "dir-tree":
		c.cmdDirTree(args)
	case "dir-indent":
		c.cmdDirIndent(args)

	case "insert":
		c.cmdInsert(args)
	case "append":
		c.cmdAppend(args)
	case "edit-id":
		c.cmdEditID(args)
	case "edit-text":
		c.cmdEditText(args)
	case "delete":
		c.cmdDelete(args)
	case "init":
		c.cmdInit(args)
	case "undo":
		c.cmdUndo(args)
	case "redo":
		c.cmdRedo(args)
	case "showid":
		c.cmdShowID(args)
	case "print-tree":
		c.cmdPrintTree(args)
	case "print-indent":
		c.cmdPrintIndent(args)
	case "spell-check":
		c.cmdSpellCheck(args)

	default:
		c.printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}
	return true
}

// exit saves the session state, then offers to save modified documents.
func (c *Console) exit(ctx context.Context) {
	if err := c.ws.SaveState(ctx); err != nil {
		c.printf("Error: %v\n", err)
	} else {
		c.printf("Session state saved.\n")
	}
	for _, e := range c.ws.List() {
		if !e.Modified || c.confirm == nil {
			continue
		}
		if c.confirm(fmt.Sprintf("File '%s' has unsaved changes. Save before exiting?", e.Name)) {
			c.save(ctx, e.Name)
		}
	}
	c.printf("Goodbye!\n")
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) fail(err error) {
	c.printf("Error: %v\n", err)
}

func (c *Console) usage(u string) {
	c.printf("Usage: %s\n", u)
}

const helpText = `
Available Commands:
-------------------

FILES:
  load <file>                          Open a file; a missing file starts a new document
  save [file]                          Save the active document, or the named open one
  close                                Close the active document
  editor-list                          List open documents (> active, * modified)
  edit <file>                          Switch to an open document
  list                                 List documents in the store
  dir-tree                             Show open files as a path tree (* active)
  dir-indent [size]                    Show open files as an indented path tree

EDITING:
  insert <tag> <id> <beforeId> [text]  Insert an element before another
  append <tag> <id> <parentId> [text]  Append an element as the last child
  edit-id <oldId> <newId>              Change an element's id
  edit-text <id> [text]                Replace an element's text
  delete <id>                          Delete an element
  init                                 Reset to an empty document
  undo                                 Undo the last command
  redo                                 Redo the last undone command

VIEWS:
  showid <true|false>                  Show or hide ids in views
  print-tree                           Show the document as a tree
  print-indent [size]                  Show the document as indented markup
  spell-check                          List misspelled words

OTHER:
  help                                 Show this help message
  exit, quit                           Save the session and exit
`
