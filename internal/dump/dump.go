// Package dump builds and prints tree-style reports: labeled nodes
// carrying aligned key/value fields, optional code listings, and child
// nodes printed one indent level deeper.
package dump

import (
	"fmt"
	"io"
	"strings"
)

// Field is one key/value line in a node. An empty key prints the value
// alone, without alignment.
type Field struct {
	Key     string
	Value   string
	Comment string
}

// Node is a labeled group of fields with optional children and a raw
// code listing.
type Node struct {
	Label    string
	Fields   []Field
	Children []*Node
	Code     []string
}

// New creates a node with the given label.
func New(label string) *Node {
	return &Node{Label: label}
}

// AddField appends a key/value field.
func (n *Node) AddField(key, value string) {
	n.Fields = append(n.Fields, Field{Key: key, Value: value})
}

// AddFieldf appends a key field with a formatted value.
func (n *Node) AddFieldf(key, format string, args ...any) {
	n.AddField(key, fmt.Sprintf(format, args...))
}

// AddComment appends a key/value field with a trailing comment.
func (n *Node) AddComment(key, value, comment string) {
	n.Fields = append(n.Fields, Field{Key: key, Value: value, Comment: comment})
}

// AddChild appends a child node and returns it.
func (n *Node) AddChild(label string) *Node {
	child := New(label)
	n.Children = append(n.Children, child)
	return child
}

// fieldsAlign returns the key column width, the longest key plus one.
func (n *Node) fieldsAlign() int {
	align := 0
	for _, f := range n.Fields {
		if len(f.Key) > align {
			align = len(f.Key)
		}
	}
	return align + 1
}

// Print writes the node tree to w, indenting each level by indentSize
// spaces.
func (n *Node) Print(w io.Writer, indentSize int) {
	n.print(w, 0, indentSize)
}

func (n *Node) print(w io.Writer, level, indentSize int) {
	indent := strings.Repeat(" ", level*indentSize)
	fmt.Fprintf(w, "%s%s\n", indent, n.Label)

	fieldIndent := strings.Repeat(" ", (level+1)*indentSize)
	align := n.fieldsAlign()

	for _, f := range n.Fields {
		switch {
		case f.Key == "":
			fmt.Fprintf(w, "%s%s\n", fieldIndent, f.Value)
		case f.Comment != "":
			fmt.Fprintf(w, "%s%-*s: %s  ; %s\n", fieldIndent, align, f.Key, f.Value, f.Comment)
		default:
			fmt.Fprintf(w, "%s%-*s: %s\n", fieldIndent, align, f.Key, f.Value)
		}
	}

	for _, line := range n.Code {
		fmt.Fprintf(w, "%s%s\n", fieldIndent, line)
	}

	for _, child := range n.Children {
		child.print(w, level+1, indentSize)
	}
}
