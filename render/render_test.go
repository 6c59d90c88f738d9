package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alimasry/go-html-editor/dom"
)

// sample builds body > (h1#header "Hello World", p#paragraph "This is a
// test paragraph." > span#highlight "highlighted text").
func sample(t *testing.T) *dom.Tree {
	t.Helper()
	tr := dom.New()
	body := tr.Body()
	h1 := tr.NewElement("h1", "header", "Hello World")
	p := tr.NewElement("p", "paragraph", "This is a test paragraph.")
	span := tr.NewElement("span", "highlight", "highlighted text")
	for _, err := range []error{
		tr.AddChild(p, span),
		tr.AddChild(body, h1),
		tr.AddChild(body, p),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

func TestTreeView(t *testing.T) {
	tests := []struct {
		name   string
		showID bool
		want   string
	}{
		{
			name:   "with ids",
			showID: true,
			want: "html\n" +
				"├── head\n" +
				"│   └── title\n" +
				"└── body\n" +
				"    ├── h1#header\n" +
				"    │   └── Hello World\n" +
				"    └── p#paragraph\n" +
				"        ├── This is a test paragraph.\n" +
				"        └── span#highlight\n" +
				"            └── highlighted text",
		},
		{
			name:   "without ids",
			showID: false,
			want: "html\n" +
				"├── head\n" +
				"│   └── title\n" +
				"└── body\n" +
				"    ├── h1\n" +
				"    │   └── Hello World\n" +
				"    └── p\n" +
				"        ├── This is a test paragraph.\n" +
				"        └── span\n" +
				"            └── highlighted text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TreeView{}.Render(sample(t), tt.showID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTreeView_NestedAppend(t *testing.T) {
	tr := dom.New()
	d1 := tr.NewElement("div", "d1", "")
	p1 := tr.NewElement("p", "p1", "hi")
	tr.AddChild(tr.Body(), d1)
	tr.AddChild(d1, p1)

	want := "html\n" +
		"├── head\n" +
		"│   └── title\n" +
		"└── body\n" +
		"    └── div#d1\n" +
		"        └── p#p1\n" +
		"            └── hi"
	if diff := cmp.Diff(want, TreeView{}.Render(tr, true)); diff != "" {
		t.Errorf("Render (-want +got):\n%s", diff)
	}
}

func TestTreeView_MiddleSiblingPrefix(t *testing.T) {
	tr := dom.New()
	a := tr.NewElement("div", "a", "")
	tr.AddChild(tr.Body(), a)
	tr.AddChild(a, tr.NewElement("p", "a1", ""))
	tr.AddChild(tr.Body(), tr.NewElement("div", "b", ""))

	want := "html\n" +
		"├── head\n" +
		"│   └── title\n" +
		"└── body\n" +
		"    ├── div#a\n" +
		"    │   └── p#a1\n" +
		"    └── div#b"
	if diff := cmp.Diff(want, TreeView{}.Render(tr, true)); diff != "" {
		t.Errorf("Render (-want +got):\n%s", diff)
	}
}

func TestTreeView_Flagged(t *testing.T) {
	tr := sample(t)
	h1, _ := tr.FindByID("header")
	v := TreeView{Flagged: func(n dom.NodeID) bool { return n == h1 }}
	want := "html\n" +
		"├── head\n" +
		"│   └── title\n" +
		"└── body\n" +
		"    ├── [X] h1#header\n" +
		"    │   └── Hello World\n" +
		"    └── p#paragraph\n" +
		"        ├── This is a test paragraph.\n" +
		"        └── span#highlight\n" +
		"            └── highlighted text"
	if diff := cmp.Diff(want, v.Render(tr, true)); diff != "" {
		t.Errorf("Render (-want +got):\n%s", diff)
	}
}

func TestIndentView(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		showID bool
		want   string
	}{
		{
			name:   "default indent",
			size:   2,
			showID: true,
			want: "<html>\n" +
				"  <head>\n" +
				"    <title></title>\n" +
				"  </head>\n" +
				"  <body>\n" +
				"    <h1 id=\"header\">Hello World</h1>\n" +
				"    <p id=\"paragraph\">This is a test paragraph.\n" +
				"      <span id=\"highlight\">highlighted text</span>\n" +
				"    </p>\n" +
				"  </body>\n" +
				"</html>\n",
		},
		{
			name:   "custom indent",
			size:   4,
			showID: true,
			want: "<html>\n" +
				"    <head>\n" +
				"        <title></title>\n" +
				"    </head>\n" +
				"    <body>\n" +
				"        <h1 id=\"header\">Hello World</h1>\n" +
				"        <p id=\"paragraph\">This is a test paragraph.\n" +
				"            <span id=\"highlight\">highlighted text</span>\n" +
				"        </p>\n" +
				"    </body>\n" +
				"</html>\n",
		},
		{
			name:   "without ids",
			size:   0,
			showID: false,
			want: "<html>\n" +
				"  <head>\n" +
				"    <title></title>\n" +
				"  </head>\n" +
				"  <body>\n" +
				"    <h1>Hello World</h1>\n" +
				"    <p>This is a test paragraph.\n" +
				"      <span>highlighted text</span>\n" +
				"    </p>\n" +
				"  </body>\n" +
				"</html>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewIndentView(tt.size).Render(sample(t), tt.showID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndentView_EmptyDocument(t *testing.T) {
	// body has neither children nor text, so it collapses onto one line.
	want := "<html>\n" +
		"  <head>\n" +
		"    <title></title>\n" +
		"  </head>\n" +
		"  <body></body>\n" +
		"</html>\n"
	if diff := cmp.Diff(want, IndentView{}.Render(dom.New(), true)); diff != "" {
		t.Errorf("Render (-want +got):\n%s", diff)
	}
}

func TestDisplay_NilStrategyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil strategy")
		}
	}()
	Display(nil, dom.New(), true)
}

func TestDisplay_DoesNotMutate(t *testing.T) {
	tr := sample(t)
	before := tr.Snapshot()
	for _, s := range []Strategy{TreeView{}, IndentView{}} {
		Display(s, tr, true)
	}
	if diff := cmp.Diff(before, tr.Snapshot()); diff != "" {
		t.Errorf("render mutated tree (-want +got):\n%s", diff)
	}
}
