package doc

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// Parse reads markdown source into a Document.
func Parse(source []byte) (*Document, error) {
	c := converter{source: source}
	root := markdown.Parser().Parse(text.NewReader(source))
	children, err := c.children(root)
	if err != nil {
		return nil, err
	}
	return &Document{Children: children}, nil
}

type converter struct {
	source []byte
}

func (c *converter) children(n ast.Node) ([]Node, error) {
	out := []Node{}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		converted, err := c.convert(child)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (c *converter) convert(n ast.Node) (Node, error) {
	switch n := n.(type) {
	case *ast.Heading:
		children, err := c.children(n)
		return &Heading{Level: n.Level, Children: children}, err
	case *ast.Paragraph:
		children, err := c.children(n)
		return &Paragraph{Children: children}, err
	case *ast.TextBlock:
		children, err := c.children(n)
		return &Paragraph{Tight: true, Children: children}, err
	case *ast.List:
		items, err := c.children(n)
		return &List{Ordered: n.IsOrdered(), Start: n.Start, Items: items}, err
	case *ast.ListItem:
		children, err := c.children(n)
		return &ListItem{Children: children}, err
	case *ast.Blockquote:
		children, err := c.children(n)
		return &Blockquote{Children: children}, err
	case *ast.FencedCodeBlock:
		return &CodeBlock{Lang: string(n.Language(c.source)), Code: c.lines(n.Lines())}, nil
	case *ast.CodeBlock:
		return &CodeBlock{Code: c.lines(n.Lines())}, nil
	case *ast.ThematicBreak:
		return &ThematicBreak{}, nil
	case *ast.HTMLBlock:
		raw := c.lines(n.Lines())
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(c.source))
		}
		return &HTMLBlock{Raw: raw}, nil
	case *ast.Text:
		t := &Text{Value: inlineText(n.Segment.Value(c.source), n.IsRaw())}
		switch {
		case n.HardLineBreak():
			t.Break = HardBreak
		case n.SoftLineBreak():
			t.Break = SoftBreak
		}
		return t, nil
	case *ast.String:
		return &Text{Value: inlineText(n.Value, n.IsRaw() || n.IsCode())}, nil
	case *ast.Emphasis:
		children, err := c.children(n)
		if n.Level >= 2 {
			return &Strong{Children: children}, err
		}
		return &Emphasis{Children: children}, err
	case *east.Strikethrough:
		children, err := c.children(n)
		return &Strikethrough{Children: children}, err
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(c.source))
			case *ast.String:
				buf.Write(t.Value)
			}
		}
		return &CodeSpan{Code: buf.String()}, nil
	case *ast.Link:
		children, err := c.children(n)
		return &Link{Dest: string(n.Destination), Title: string(n.Title), Children: children}, err
	case *ast.AutoLink:
		label := &Text{Value: string(n.Label(c.source))}
		return &Link{Dest: string(n.URL(c.source)), Children: []Node{label}}, nil
	case *ast.Image:
		children, err := c.children(n)
		return &Image{Dest: string(n.Destination), Title: string(n.Title), Children: children}, err
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		return &RawHTML{Raw: buf.String()}, nil
	default:
		return nil, fmt.Errorf("unsupported markdown node %s", n.Kind())
	}
}

// inlineText resolves backslash escapes and character references the way
// goldmark's HTML writer does. Raw text is kept as written.
func inlineText(b []byte, raw bool) string {
	if raw {
		return string(b)
	}
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func (c *converter) lines(lines *text.Segments) string {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	return buf.String()
}
