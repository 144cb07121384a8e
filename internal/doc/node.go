// Package doc is the document tree the layout engine and the demo collector
// walk. Every node kind is a concrete type implementing Node; consumers switch
// on the concrete type and treat anything else as a structural error.
package doc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingChildren reports a container node whose children were never set.
var ErrMissingChildren = errors.New("container node has no children collection")

// UnknownNodeError reports a node outside the known set of kinds.
type UnknownNodeError struct {
	Node Node
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown document node %T", e.Node)
}

type Node interface {
	node()
}

type Document struct{ Children []Node }

type Heading struct {
	Level    int
	Children []Node
}

// Paragraph is Tight when it sits directly in a tight list item.
type Paragraph struct {
	Tight    bool
	Children []Node
}

type List struct {
	Ordered bool
	Start   int
	// Items holds ListItem nodes.
	Items []Node
}

type ListItem struct{ Children []Node }

type Blockquote struct{ Children []Node }

type CodeBlock struct {
	Lang string
	Code string
}

// SideEffects reports whether rendering the block runs a command.
func (c *CodeBlock) SideEffects() bool { return c.Lang == LangRun }

const (
	LangRun  = "run"
	LangDemo = "demo"
)

type ThematicBreak struct{}

type HTMLBlock struct{ Raw string }

type Break int

const (
	NoBreak Break = iota
	SoftBreak
	HardBreak
)

// Text is the plain text leaf.
type Text struct {
	Value string
	Break Break
}

type Emphasis struct{ Children []Node }

type Strong struct{ Children []Node }

type Strikethrough struct{ Children []Node }

type CodeSpan struct{ Code string }

type Link struct {
	Dest     string
	Title    string
	Children []Node
}

type Image struct {
	Dest     string
	Title    string
	Children []Node
}

type RawHTML struct{ Raw string }

func (*Document) node()      {}
func (*Heading) node()       {}
func (*Paragraph) node()     {}
func (*List) node()          {}
func (*ListItem) node()      {}
func (*Blockquote) node()    {}
func (*CodeBlock) node()     {}
func (*ThematicBreak) node() {}
func (*HTMLBlock) node()     {}
func (*Text) node()          {}
func (*Emphasis) node()      {}
func (*Strong) node()        {}
func (*Strikethrough) node() {}
func (*CodeSpan) node()      {}
func (*Link) node()          {}
func (*Image) node()         {}
func (*RawHTML) node()       {}

// Children returns the child collection of a container node. ok is false for
// leaves. A container whose collection is nil yields ErrMissingChildren.
func Children(n Node) (children []Node, ok bool, err error) {
	switch n := n.(type) {
	case *Document:
		children = n.Children
	case *Heading:
		children = n.Children
	case *Paragraph:
		children = n.Children
	case *List:
		children = n.Items
	case *ListItem:
		children = n.Children
	case *Blockquote:
		children = n.Children
	case *Emphasis:
		children = n.Children
	case *Strong:
		children = n.Children
	case *Strikethrough:
		children = n.Children
	case *Link:
		children = n.Children
	case *Image:
		children = n.Children
	case *CodeBlock, *ThematicBreak, *HTMLBlock, *Text, *CodeSpan, *RawHTML:
		return nil, false, nil
	default:
		return nil, false, &UnknownNodeError{Node: n}
	}
	if children == nil {
		return nil, true, fmt.Errorf("%T: %w", n, ErrMissingChildren)
	}
	return children, true, nil
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n Node, fn func(Node) bool) error {
	children, ok, err := Children(n)
	if err != nil {
		return err
	}
	if !fn(n) || !ok {
		return nil
	}
	for _, child := range children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// HasSideEffects reports whether rendering the tree executes anything.
func HasSideEffects(root Node) bool {
	found := false
	_ = Walk(root, func(n Node) bool {
		if cb, ok := n.(*CodeBlock); ok && cb.SideEffects() {
			found = true
		}
		return !found
	})
	return found
}

// PlainText concatenates the text content of nodes without any styling.
func PlainText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		_ = Walk(n, func(n Node) bool {
			switch n := n.(type) {
			case *Text:
				b.WriteString(n.Value)
				if n.Break != NoBreak {
					b.WriteByte('\n')
				}
			case *CodeSpan:
				b.WriteString(n.Code)
			case *RawHTML:
				b.WriteString(htmlText(n.Raw))
			}
			return true
		})
	}
	return b.String()
}
