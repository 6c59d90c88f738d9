package render

import (
	"path/filepath"
	"strings"
)

// FileNode is a directory or file in a tree of open file paths.
type FileNode struct {
	Name     string
	Dir      bool
	Active   bool
	Children []*FileNode
}

// FileTree arranges slash- or separator-delimited paths under a "root"
// node. Directories and files keep the order in which they first appear,
// and the file named active is marked.
func FileTree(paths []string, active string) *FileNode {
	root := &FileNode{Name: "root", Dir: true}
	for _, p := range paths {
		parts := splitPath(p)
		if len(parts) == 0 {
			continue
		}
		n := root
		for _, dir := range parts[:len(parts)-1] {
			n = n.child(dir, true)
		}
		f := n.child(parts[len(parts)-1], false)
		f.Active = f.Active || p == active
	}
	return root
}

func (n *FileNode) child(name string, dir bool) *FileNode {
	for _, c := range n.Children {
		if c.Name == name && c.Dir == dir {
			return c
		}
	}
	c := &FileNode{Name: name, Dir: dir}
	n.Children = append(n.Children, c)
	return c
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(filepath.ToSlash(p), "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

func (n *FileNode) label() string {
	if n.Active {
		return n.Name + "*"
	}
	return n.Name
}

// TreeFiles draws a file tree with the same connectors as TreeView.
func TreeFiles(root *FileNode) string {
	lines := []string{root.label()}
	treeFiles(root, "", &lines)
	return strings.Join(lines, "\n")
}

func treeFiles(n *FileNode, prefix string, lines *[]string) {
	for i, c := range n.Children {
		conn, next := branch, pipe
		if i == len(n.Children)-1 {
			conn, next = corner, blank
		}
		*lines = append(*lines, prefix+conn+c.label())
		treeFiles(c, prefix+next, lines)
	}
}

// IndentFiles draws a file tree with size spaces per level. Every line ends
// with a newline.
func IndentFiles(root *FileNode, size int) string {
	if size <= 0 {
		size = DefaultIndent
	}
	var b strings.Builder
	indentFiles(&b, root, 0, size)
	return b.String()
}

func indentFiles(b *strings.Builder, n *FileNode, level, size int) {
	b.WriteString(strings.Repeat(" ", level*size))
	b.WriteString(n.label())
	b.WriteString("\n")
	for _, c := range n.Children {
		indentFiles(b, c, level+1, size)
	}
}
