package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimasry/go-html-editor/store"
	"github.com/alimasry/go-html-editor/workspace"
)

type harness struct {
	t     *testing.T
	st    *store.MemoryStore
	con   *Console
	out   *bytes.Buffer
	asked []string
}

func newHarness(t *testing.T, answer bool, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t, st: store.NewMemoryStore(), out: &bytes.Buffer{}}
	confirm := func(q string) bool {
		h.asked = append(h.asked, q)
		return answer
	}
	opts = append([]Option{WithConfirm(confirm)}, opts...)
	h.con = New(workspace.New(h.st), h.out, opts...)
	return h
}

// run executes lines and returns what the last one printed.
func (h *harness) run(lines ...string) string {
	h.t.Helper()
	for _, l := range lines {
		h.out.Reset()
		require.True(h.t, h.con.Exec(context.Background(), l), l)
	}
	return h.out.String()
}

func TestScenarioB_PrintTree(t *testing.T) {
	h := newHarness(t, false)
	got := h.run(
		"load doc.html",
		"append div d1 body",
		"append p p1 d1 hi",
		"print-tree",
	)
	want := "html\n" +
		"├── head\n" +
		"│   └── title\n" +
		"└── body\n" +
		"    └── div#d1\n" +
		"        └── p#p1\n" +
		"            └── hi\n"
	assert.Equal(t, want, got)
}

func TestScenarioA_PrintIndent(t *testing.T) {
	h := newHarness(t, false)
	got := h.run("load doc.html", "print-indent")
	want := "<html>\n" +
		"  <head>\n" +
		"    <title></title>\n" +
		"  </head>\n" +
		"  <body></body>\n" +
		"</html>\n"
	assert.Equal(t, want, got)
}

func TestPrintIndent_SizePersists(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html", "append p p1 body x", "print-indent 4")

	got := h.run("print-indent")
	assert.Contains(t, got, "\n        <p id=\"p1\">x</p>\n")

	got = h.run("print-indent abc")
	assert.True(t, strings.HasPrefix(got, "Invalid indent value. Using 4.\n"), got)
}

func TestShowID(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html", "append p p1 body")

	assert.Equal(t, "showId set to false.\n", h.run("showid false"))
	assert.NotContains(t, h.run("print-tree"), "#p1")

	assert.Equal(t, "Usage: showid <true|false>\n", h.run("showid true extra"))
	assert.Equal(t, "Invalid value for showid. Use 'true' or 'false'.\n", h.run("showid maybe"))

	h.run("showid TRUE")
	assert.Contains(t, h.run("print-tree"), "p#p1")
}

func TestScenarioC_DeleteMissing(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html")
	before := h.run("print-indent")

	got := h.run("delete nope")
	assert.Contains(t, got, "Error: ")
	assert.Contains(t, got, `"nope"`)
	assert.Equal(t, before, h.run("print-indent"))
	assert.Equal(t, "> doc.html\n", h.run("editor-list"), "failed command leaves the document unmodified")
}

func TestScenarioD_UndoFresh(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html")
	assert.Equal(t, "Nothing to undo.\n", h.run("undo"))
	assert.Equal(t, "Nothing to redo.\n", h.run("redo"))
}

func TestUndoRedo(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html", "append p p1 body one")
	withP := h.run("print-indent")

	h.run("edit-text p1 two words", "edit-id p1 p2")
	assert.Contains(t, h.run("print-indent"), `<p id="p2">two words</p>`)

	h.run("undo", "undo")
	assert.Equal(t, withP, h.run("print-indent"))

	h.run("redo")
	assert.Contains(t, h.run("print-indent"), `<p id="p1">two words</p>`)

	h.run("append span s body")
	assert.Equal(t, "Nothing to redo.\n", h.run("redo"))
}

func TestEditConfirmations(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html")
	tests := []struct {
		line string
		want string
	}{
		{"append div d1 body", "Appended <div> with id 'd1' to 'body'.\n"},
		{"insert p x html", "Error: "},
		{"append p p1 d1 hi", "Appended <p> with id 'p1' to 'd1'.\n"},
		{"insert h2 h p1", "Inserted <h2> with id 'h' before 'p1'.\n"},
		{"edit-id h sub", "Changed id of <h2> from 'h' to 'sub'.\n"},
		{"edit-text sub New words", "Changed text of <h2> with id 'sub'.\n"},
		{"delete sub", "Deleted <h2> with id 'sub'.\n"},
		{"undo", "Undo: delete \"sub\"\n"},
		{"redo", "Redo: delete \"sub\"\n"},
		{"init", "Initialized empty document.\n"},
	}
	for _, tt := range tests {
		got := h.run(tt.line)
		if strings.HasPrefix(tt.want, "Error: ") {
			assert.True(t, strings.HasPrefix(got, "Error: "), "%s: %q", tt.line, got)
			continue
		}
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestInsertDeleteInit(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html", "append p last body", "insert h1 first last Title text")
	got := h.run("print-indent")
	assert.Contains(t, got, "    <h1 id=\"first\">Title text</h1>\n    <p id=\"last\"></p>\n")

	h.run("delete first")
	assert.NotContains(t, h.run("print-indent"), "first")

	h.run("init")
	assert.NotContains(t, h.run("print-indent"), "last")
	h.run("undo")
	assert.Contains(t, h.run("print-indent"), "last")

	assert.Contains(t, h.run("insert p x html"), "Error: ", "the root has no parent")
}

func TestUsage(t *testing.T) {
	h := newHarness(t, false)
	h.run("load doc.html")
	tests := map[string]string{
		"insert p x":       "Usage: insert <tag> <id> <beforeId> [text]\n",
		"append p":         "Usage: append <tag> <id> <parentId> [text]\n",
		"edit-id a":        "Usage: edit-id <oldId> <newId>\n",
		"edit-text":        "Usage: edit-text <id> [text]\n",
		"delete":           "Usage: delete <id>\n",
		"print-indent 2 3": "Usage: print-indent [size]\n",
		"load":             "Usage: load <file>\n",
		"frobnicate":       "Unknown command: frobnicate. Type 'help' for available commands.\n",
	}
	for line, want := range tests {
		assert.Equal(t, want, h.run(line), line)
	}
}

func TestNoActiveDocument(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, "No active document. Use 'load <file>' first.\n", h.run("print-tree"))
	assert.Equal(t, "No open editors.\n", h.run("editor-list"))
	assert.Equal(t, "Error: no active document\n", h.run("close"))
}

func TestSpellCheck(t *testing.T) {
	h := newHarness(t, false, WithMarkTree(true))
	h.run("load doc.html", "append p p1 body Helo world")

	got := h.run("spell-check")
	assert.Contains(t, got, "Spelling errors:\n  p1: Helo (did you mean: ")
	assert.Contains(t, got, "hello")
	assert.Contains(t, h.run("print-tree"), "[X] p#p1")

	h.run("edit-text p1 Hello world")
	assert.Equal(t, "No spelling errors found.\n", h.run("spell-check"))
}

func TestSessionCommands(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	require.NoError(t, h.st.Put(ctx, "a.html", `<html><body><p id="p">hi</p></body></html>`))

	assert.Equal(t, "Loaded file: a.html\n", h.run("load a.html"))
	assert.Equal(t, "Initialized new document for 'b.html'.\n", h.run("load b.html"))
	assert.Equal(t, "File 'a.html' is already loaded.\n", h.run("load a.html"))

	h.run("edit b.html", "append p x body")
	assert.Equal(t, "  a.html\n> b.html*\n", h.run("editor-list"))

	assert.Equal(t, "Saved: b.html\n", h.run("save"))
	assert.Equal(t, "  a.html\n> b.html\n", h.run("editor-list"))
	info, err := h.st.Get(ctx, "b.html")
	require.NoError(t, err)
	assert.Contains(t, info.Content, `<p id="x"></p>`)

	assert.Equal(t, "Error: nope.html: document is not open\n", h.run("edit nope.html"))
}

func TestClose_ConfirmSaves(t *testing.T) {
	h := newHarness(t, true)
	h.run("load a.html", "append p x body")

	got := h.run("close")
	assert.Equal(t, "Saved: a.html\nClosed file: a.html\n", got)
	require.Len(t, h.asked, 1)
	_, err := h.st.Get(context.Background(), "a.html")
	assert.NoError(t, err)
}

func TestClose_DeclineDiscards(t *testing.T) {
	h := newHarness(t, false)
	h.run("load a.html", "load b.html", "append p x body")

	assert.Equal(t, "Closed file: b.html\n", h.run("close"))
	_, err := h.st.Get(context.Background(), "b.html")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "> a.html\n", h.run("editor-list"))
}

func TestClose_NoConfirmRefuses(t *testing.T) {
	st := store.NewMemoryStore()
	var out bytes.Buffer
	con := New(workspace.New(st), &out)
	ctx := context.Background()
	con.Exec(ctx, "load a.html")
	con.Exec(ctx, "append p x body")
	out.Reset()
	con.Exec(ctx, "close")
	assert.Equal(t, "File 'a.html' has unsaved changes. Save it first.\n", out.String())
	assert.Len(t, con.Workspace().Names(), 1)
}

func TestExitSavesState(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.run("load a.html", "load b.html", "showid false", "edit a.html", "append p x body")

	h.out.Reset()
	assert.False(t, h.con.Exec(ctx, "exit"))
	assert.Contains(t, h.out.String(), "Session state saved.\n")
	assert.Contains(t, h.out.String(), "Goodbye!\n")

	st, err := h.st.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.SessionState{
		OpenFiles:  []string{"a.html", "b.html"},
		ActiveFile: "a.html",
		ShowID:     []bool{true, false},
	}, *st)

	// The modified document was offered for saving.
	require.Len(t, h.asked, 1)
	_, err = h.st.Get(ctx, "a.html")
	assert.NoError(t, err)

	next := New(workspace.New(h.st), &bytes.Buffer{})
	next.Restore(ctx)
	assert.Equal(t, []string{"a.html", "b.html"}, next.Workspace().Names())
	s, err := next.Workspace().Session("b.html")
	require.NoError(t, err)
	assert.False(t, s.ShowID())
}

func TestRun(t *testing.T) {
	st := store.NewMemoryStore()
	var out bytes.Buffer
	con := New(workspace.New(st), &out)

	in := strings.NewReader("load a.html\nappend p x body\n\nclose\ny\nquit\nload never.html\n")
	require.NoError(t, con.Run(context.Background(), in))

	got := out.String()
	assert.Contains(t, got, Prompt+"Initialized new document for 'a.html'.\n")
	assert.Contains(t, got, "Save before closing? (y/n): Saved: a.html\nClosed file: a.html\n")
	assert.Contains(t, got, "Goodbye!\n")
	assert.NotContains(t, got, "never.html", "nothing runs after quit")
}

func TestRun_EOFExits(t *testing.T) {
	st := store.NewMemoryStore()
	var out bytes.Buffer
	con := New(workspace.New(st), &out)

	require.NoError(t, con.Run(context.Background(), strings.NewReader("load a.html")))
	_, err := st.LoadState(context.Background())
	assert.NoError(t, err, "end of input saves the session like exit")
}

func TestRun_ContextCanceled(t *testing.T) {
	con := New(workspace.New(store.NewMemoryStore()), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, con.Run(ctx, strings.NewReader("help\n")), context.Canceled)
}

func TestDirCommands(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, "No open editors.\n", h.run("dir-tree"))

	h.run("load html/test.html", "load html/test1.html", "load html/aaa/test1.html")
	want := "root\n" +
		"└── html\n" +
		"    ├── test.html\n" +
		"    ├── test1.html\n" +
		"    └── aaa\n" +
		"        └── test1.html*\n"
	assert.Equal(t, want, h.run("dir-tree"))

	want = "root\n" +
		"  html\n" +
		"    test.html\n" +
		"    test1.html\n" +
		"    aaa\n" +
		"      test1.html*\n"
	assert.Equal(t, want, h.run("dir-indent"))

	h.run("edit html/test.html")
	got := h.run("dir-indent 4")
	assert.Contains(t, got, "\n        test.html*\n")
	assert.Contains(t, h.run("print-indent"), "\n        <title></title>\n", "dir-indent size is shared with print-indent")

	assert.True(t, strings.HasPrefix(h.run("dir-indent x"), "Invalid indent value. Using 4.\n"))
	assert.Equal(t, "Usage: dir-tree\n", h.run("dir-tree extra"))
}

func TestList(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, "No stored documents.\n", h.run("list"))

	ctx := context.Background()
	require.NoError(t, h.st.Put(ctx, "b.html", "<p>b</p>"))
	require.NoError(t, h.st.Put(ctx, "a.html", "<p>a</p>"))
	h.run("load new.html")

	got := h.run("list")
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 2, "unsaved documents are not in the store")
	assert.True(t, strings.HasPrefix(lines[0], "  a.html  "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  b.html  "), lines[1])
	assert.Equal(t, "Usage: list\n", h.run("list all"))
}
