// Package render lays a document tree out as styled terminal lines.
package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/logging"
	"github.com/baaaaaaaka/slides/internal/style"
)

type Highlighter interface {
	Highlight(code, lang string) (string, bool)
}

// ImageConverter draws the image at path as terminal text no larger than
// maxCols by maxRows cells. A zero limit leaves that axis free.
type ImageConverter interface {
	Convert(path string, maxCols, maxRows int) (string, error)
}

// Runner executes a run-tagged code block and returns its combined output.
type Runner interface {
	Capture(ctx context.Context, dir, command string) (string, error)
}

// Theme holds the border colour for each kind of framed block.
type Theme struct {
	Run  style.Attr
	Demo style.Attr
	Code style.Attr
	File style.Attr
}

func DefaultTheme() Theme {
	return Theme{
		Run:  style.FgYellow,
		Demo: style.FgGreen,
		Code: style.FgBlue,
		File: style.FgCyan,
	}
}

const demoTitle = "Demo (press Enter to run)"

// Engine renders document trees. Every field is optional; a missing
// Highlighter leaves code plain, a missing ImageConverter or Runner renders
// an inline marker instead.
type Engine struct {
	Highlighter Highlighter
	Images      ImageConverter
	Runner      Runner
	Theme       Theme
	Logger      *clog.Logger
}

// renderCtx is the traversal state threaded through every render call.
type renderCtx struct {
	ctx      context.Context
	width    int
	depth    int
	bullet   string
	origin   string
	viewport Size
}

// Layout renders root for a slide from origin inside viewport. It runs twice:
// once at a quarter of the viewport width, then again at the width the first
// pass actually measured so frames fit their content.
func (e *Engine) Layout(ctx context.Context, root doc.Node, origin string, viewport Size) (Block, error) {
	if d, ok := root.(*doc.Document); ok && len(d.Children) == 0 {
		return Block{}, nil
	}
	start := time.Now()
	first, err := e.Render(ctx, root, origin, viewport.Width/4, viewport)
	if err != nil {
		return Block{}, err
	}
	width := MaxWidth(splitLines(first))
	second, err := e.Render(ctx, root, origin, width, viewport)
	if err != nil {
		return Block{}, err
	}
	b := NewBlock(second)
	e.logger().Debug("layout", "origin", origin, "provisional", viewport.Width/4,
		"measured", width, "final", b.Width, "height", b.Height, "took", time.Since(start))
	return b, nil
}

// Render performs a single layout pass of root at the given content width.
func (e *Engine) Render(ctx context.Context, root doc.Node, origin string, width int, viewport Size) (string, error) {
	rc := renderCtx{ctx: ctx, width: width, origin: origin, viewport: viewport}
	return e.render(rc, root)
}

func (e *Engine) logger() *clog.Logger {
	if e.Logger == nil {
		return logging.Nop()
	}
	return e.Logger
}

func (e *Engine) render(rc renderCtx, n doc.Node) (string, error) {
	if _, _, err := doc.Children(n); err != nil {
		return "", err
	}
	switch n := n.(type) {
	case *doc.Document:
		return e.renderChildren(rc, n.Children)
	case *doc.Heading:
		return e.renderHeading(rc, n)
	case *doc.Paragraph:
		body, err := e.renderChildren(rc, n.Children)
		if err != nil {
			return "", err
		}
		if n.Tight {
			return strings.TrimSpace(body) + "\n", nil
		}
		return strings.TrimSpace(body) + "\n\n", nil
	case *doc.List:
		return e.renderList(rc, n)
	case *doc.ListItem:
		return e.renderListItem(rc, n)
	case *doc.Blockquote:
		body, err := e.renderChildren(rc, n.Children)
		if err != nil {
			return "", err
		}
		return style.Seq(style.FgBlue, style.Italic) + body + style.Off(style.FgBlue, style.Italic), nil
	case *doc.CodeBlock:
		return e.renderCodeBlock(rc, n)
	case *doc.ThematicBreak:
		rule := style.Glyphs(strings.Repeat(string(style.GlyphHorizontal), max(1, rc.width)))
		return style.Seq(style.Dim) + rule + style.Reset + "\n\n", nil
	case *doc.HTMLBlock:
		text := strings.TrimSpace(doc.HTMLText(n.Raw))
		if text == "" {
			return "", nil
		}
		return text + "\n\n", nil
	case *doc.Text:
		if n.Break != doc.NoBreak {
			return n.Value + "\n", nil
		}
		return n.Value, nil
	case *doc.Emphasis:
		return e.wrapChildren(rc, n.Children, style.Italic)
	case *doc.Strong:
		return e.wrapChildren(rc, n.Children, style.Bold)
	case *doc.Strikethrough:
		return e.wrapChildren(rc, n.Children, style.Strike)
	case *doc.CodeSpan:
		return style.Seq(style.Bold, style.FgGreen) + style.BgRGB(40, 50, 40) + n.Code +
			style.Off(style.Bold, style.FgGreen, style.BgDefault), nil
	case *doc.Link:
		title, err := e.renderChildren(rc, n.Children)
		if err != nil {
			return "", err
		}
		if title == "" {
			title = n.Dest
		}
		return style.Seq(style.Bold, style.Underline, style.FgBlue) + title + style.Reset, nil
	case *doc.Image:
		return e.renderImage(rc, n)
	case *doc.RawHTML:
		return doc.HTMLText(n.Raw), nil
	default:
		return "", &doc.UnknownNodeError{Node: n}
	}
}

func (e *Engine) renderChildren(rc renderCtx, children []doc.Node) (string, error) {
	var b strings.Builder
	for _, child := range children {
		s, err := e.render(rc, child)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (e *Engine) wrapChildren(rc renderCtx, children []doc.Node, a style.Attr) (string, error) {
	body, err := e.renderChildren(rc, children)
	if err != nil {
		return "", err
	}
	return style.Wrap(body, a), nil
}

func (e *Engine) banner(title string, width int, color ...style.Attr) string {
	as := append([]style.Attr{style.Bold}, color...)
	as = append(as, style.Reverse)
	return style.Seq(as...) + center(title, width) + style.Off(as...)
}

func (e *Engine) renderHeading(rc renderCtx, h *doc.Heading) (string, error) {
	body, err := e.renderChildren(rc, h.Children)
	if err != nil {
		return "", err
	}
	title := e.banner(" "+body+" ", rc.width)
	if h.Level != 1 {
		return title + "\n\n", nil
	}
	blank := e.banner("", rc.width)
	return blank + "\n" + title + "\n" + blank + "\n\n", nil
}

func (e *Engine) renderList(rc renderCtx, l *doc.List) (string, error) {
	lines := make([]string, 0, len(l.Items))
	for i, item := range l.Items {
		child := rc
		if l.Ordered {
			child.bullet = style.Seq(style.Bold) + fmt.Sprintf("%2d.", l.Start+i) + style.Reset + " "
		} else {
			child.bullet = "  " + style.Seq(style.Bold) + style.Glyphs(string(style.GlyphDiamond)) + style.Reset + " "
		}
		s, err := e.render(child, item)
		if err != nil {
			return "", err
		}
		lines = append(lines, strings.Trim(s, "\n"))
	}
	return strings.Join(lines, "\n") + "\n\n", nil
}

func (e *Engine) renderListItem(rc renderCtx, item *doc.ListItem) (string, error) {
	indent := strings.Repeat("  ", rc.depth)
	inner := rc
	inner.depth++
	inner.bullet = ""
	parts := make([]string, 0, len(item.Children))
	for _, child := range item.Children {
		s, err := e.render(inner, child)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.Trim(s, "\n"))
	}
	return indent + rc.bullet + strings.Join(parts, "\n"), nil
}

func (e *Engine) highlight(code, lang string) string {
	if e.Highlighter == nil {
		return code
	}
	out, _ := e.Highlighter.Highlight(code, lang)
	return out
}

// codeLines splits highlighted code and drops trailing lines that draw
// nothing, such as a lone reset after the final newline.
func codeLines(s string) []string {
	lines := splitLines(s)
	for len(lines) > 0 && strings.TrimSpace(Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func prompt(lines []string) []string {
	p := style.Seq(style.FgYellow, style.Bold) + "$" + style.Reset + " "
	if len(lines) == 0 {
		return []string{p}
	}
	out := append([]string{p + lines[0]}, lines[1:]...)
	return out
}

func (e *Engine) renderCodeBlock(rc renderCtx, cb *doc.CodeBlock) (string, error) {
	switch cb.Lang {
	case doc.LangRun:
		lines := prompt(codeLines(e.highlight(cb.Code, "bash")))
		lines = append(lines, e.runOutput(rc, cb.Code)...)
		box := Boxed(lines, BoxOptions{Color: e.Theme.Run, MinWidth: rc.width})
		return box.String() + "\n\n", nil
	case doc.LangDemo:
		lines := prompt(codeLines(e.highlight(cb.Code, "bash")))
		heading := e.banner(demoTitle, rc.width, e.Theme.Demo)
		box := Boxed(lines, BoxOptions{Color: e.Theme.Demo, MinWidth: rc.width})
		return heading + "\n" + box.String() + "\n\n", nil
	}
	lines := codeLines(e.highlight(cb.Code, cb.Lang))
	box := Boxed(lines, BoxOptions{LineNumbers: true, Color: e.Theme.Code, MinWidth: rc.width})
	return box.String() + "\n\n", nil
}

func (e *Engine) runOutput(rc renderCtx, code string) []string {
	command := strings.TrimSpace(code)
	if e.Runner == nil {
		return []string{marker("<Cannot run: no runner>")}
	}
	dir := filepath.Dir(rc.origin)
	if rc.origin == "" {
		dir = "."
	}
	out, err := e.Runner.Capture(rc.ctx, dir, command)
	if err != nil {
		e.logger().Warn("run block failed", "command", command, "dir", dir, "err", err)
	}
	lines := codeLines(out)
	if len(lines) == 0 && err != nil {
		lines = []string{err.Error()}
	}
	return lines
}

func marker(text string) string {
	return style.Seq(style.FgRed, style.Bold) + text + style.Reset
}

func (e *Engine) renderImage(rc renderCtx, img *doc.Image) (string, error) {
	caption, err := e.renderChildren(rc, img.Children)
	if err != nil {
		return "", err
	}
	path := ResolvePath(rc.origin, img.Dest)

	if IsImagePath(path) {
		if _, err := os.Stat(path); err != nil {
			return "\n" + marker("<File not found: "+img.Dest+">") + "\n", nil
		}
		if e.Images == nil {
			return "\n" + marker("<Image error: no converter>") + "\n", nil
		}
		box := ImageBox(doc.PlainText(img.Children), rc.viewport)
		out, err := e.Images.Convert(path, box.Width, box.Height)
		if err != nil {
			e.logger().Warn("image conversion failed", "path", path, "err", err)
			return "\n" + marker("<Image error: "+err.Error()+">") + "\n", nil
		}
		return strings.TrimRight(out, "\n") + "\n", nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "\n" + marker("<File not found: "+img.Dest+">") + "\n", nil
	}
	if err != nil {
		return "\n" + marker("<File error: "+err.Error()+">") + "\n", nil
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	lines := codeLines(e.highlight(string(data), ext))
	title := caption
	if title == "" {
		title = path
	}
	heading := e.banner(title, rc.width, e.Theme.File)
	box := Boxed(lines, BoxOptions{LineNumbers: true, Color: e.Theme.File, MinWidth: rc.width})
	return "\n" + heading + "\n" + box.String() + "\n\n", nil
}
