package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/style"
)

type fakeRunner struct {
	calls []string
	dirs  []string
	out   string
	err   error
}

func (f *fakeRunner) Capture(_ context.Context, dir, command string) (string, error) {
	f.calls = append(f.calls, command)
	f.dirs = append(f.dirs, dir)
	return f.out, f.err
}

type fakeImages struct {
	path             string
	maxCols, maxRows int
}

func (f *fakeImages) Convert(path string, maxCols, maxRows int) (string, error) {
	f.path, f.maxCols, f.maxRows = path, maxCols, maxRows
	return "IMG\nIMG\n", nil
}

type tagHighlighter struct{}

func (tagHighlighter) Highlight(code, lang string) (string, bool) {
	if lang != "go" {
		return code, false
	}
	return "\x1b[38;5;81m" + code + "\x1b[0m", true
}

func parse(t *testing.T, src string) *doc.Document {
	t.Helper()
	d, err := doc.Parse([]byte(src))
	require.NoError(t, err)
	return d
}

func stripped(s string) []string {
	lines := splitLines(s)
	for i, ln := range lines {
		lines[i] = Strip(ln)
	}
	return lines
}

func render(t *testing.T, e *Engine, src string, width int) string {
	t.Helper()
	out, err := e.Render(context.Background(), parse(t, src), "deck/talk.md", width, Size{Width: 80, Height: 24})
	require.NoError(t, err)
	return out
}

func TestRenderHeadings(t *testing.T) {
	e := &Engine{}
	out := render(t, e, "# Title", 20)
	assert.Equal(t, []string{
		strings.Repeat(" ", 20),
		"       Title        ",
		strings.Repeat(" ", 20),
		"",
	}, stripped(out))
	assert.Contains(t, out, style.Seq(style.Bold, style.Reverse))

	out = render(t, e, "## Sub", 10)
	assert.Equal(t, []string{"   Sub    ", ""}, stripped(out))
}

func TestRenderParagraphInline(t *testing.T) {
	out := render(t, &Engine{}, "Hello *world* and **bold** ~~gone~~ `code`  ", 40)
	assert.Equal(t, "Hello \x1b[3mworld\x1b[23m and \x1b[1mbold\x1b[22m \x1b[9mgone\x1b[29m "+
		"\x1b[1;32m\x1b[48;2;40;50;40mcode\x1b[22;39;49m\n\n", out)
}

func TestRenderLink(t *testing.T) {
	out := render(t, &Engine{}, "[docs](https://example.com) <https://go.dev>", 40)
	assert.Equal(t, "\x1b[1;4;34mdocs\x1b[m \x1b[1;4;34mhttps://go.dev\x1b[m\n\n", out)
}

func TestRenderLists(t *testing.T) {
	out := render(t, &Engine{}, "- a\n- b\n  1. c\n  2. d\n", 40)
	assert.Equal(t, []string{"  ` a", "  ` b", "   1. c", "   2. d", ""}, stripped(out))
	assert.Contains(t, out, style.Glyphs("`"))
}

func TestRenderOrderedListStart(t *testing.T) {
	out := render(t, &Engine{}, "3. x\n4. y\n", 40)
	assert.Equal(t, []string{" 3. x", " 4. y", ""}, stripped(out))
}

func TestRenderBlockquoteAndRule(t *testing.T) {
	out := render(t, &Engine{}, "> quoted\n\n---\n", 6)
	assert.Contains(t, out, "\x1b[34;3m")
	assert.Equal(t, []string{"quoted", "", "qqqqqq", ""}, stripped(out))
}

func TestRenderHTMLHidesComments(t *testing.T) {
	out := render(t, &Engine{}, "<!-- speaker note -->\n\nvisible <b>bold</b>\n", 20)
	assert.NotContains(t, out, "speaker")
	assert.Contains(t, out, "visible bold")
}

func TestRenderCodeBlock(t *testing.T) {
	e := &Engine{Highlighter: tagHighlighter{}, Theme: DefaultTheme()}
	out := render(t, e, "```go\nx := 1\ny := 2\n```\n", 10)
	lines := stripped(out)
	require.Len(t, lines, 5)
	assert.Equal(t, "x1x x := 1 x", lines[1][:12])
	assert.Contains(t, out, "\x1b[38;5;81m")
	assert.True(t, strings.HasPrefix(out, style.Seq(style.FgBlue)))

	plain := render(t, e, "```nope\nraw\n```\n", 0)
	assert.Equal(t, "x1x raw x", stripped(plain)[1])
}

func TestRenderRunBlockExecutes(t *testing.T) {
	runner := &fakeRunner{out: "hello\r\n"}
	e := &Engine{Runner: runner, Theme: DefaultTheme()}
	out := render(t, e, "```run\necho hello\n```\n", 0)

	require.Equal(t, []string{"echo hello"}, runner.calls)
	assert.Equal(t, "deck", runner.dirs[0])
	lines := stripped(out)
	require.Len(t, lines, 5)
	assert.Equal(t, "x $ echo hello x", lines[1])
	assert.Equal(t, "x hello        x", lines[2])
	assert.True(t, strings.HasPrefix(out, style.Seq(style.FgYellow)))
}

func TestRenderRunBlockFailureShowsError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: script not found")}
	out := render(t, &Engine{Runner: runner}, "```run\nfalse\n```\n", 0)
	assert.Contains(t, out, "exec: script not found")
}

func TestRenderDemoDoesNotExecute(t *testing.T) {
	runner := &fakeRunner{}
	e := &Engine{Runner: runner, Theme: DefaultTheme()}
	out := render(t, e, "```demo\nmake test\n```\n", 30)

	assert.Empty(t, runner.calls)
	lines := stripped(out)
	assert.Equal(t, center(demoTitle, 30), lines[0])
	assert.Equal(t, "x $ make test", lines[2][:13])
	assert.Contains(t, out, style.Seq(style.Bold, style.FgGreen, style.Reverse))
}

func TestRenderEmbeddedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	e := &Engine{Highlighter: tagHighlighter{}, Theme: DefaultTheme()}

	out, err := e.Render(context.Background(), parse(t, "![Listing](main.go)"), filepath.Join(dir, "talk.md"), 20, Size{80, 24})
	require.NoError(t, err)
	lines := stripped(out)
	assert.Equal(t, center("Listing", 20), lines[0])
	assert.Equal(t, "x1x package main", lines[2][:16])
	assert.Contains(t, out, style.Seq(style.Bold, style.FgCyan, style.Reverse))
}

func TestRenderMissingFileMarker(t *testing.T) {
	out := render(t, &Engine{}, "before\n\n![x](nope.txt)\n\n![y](gone.png)\n\nafter", 20)
	assert.Contains(t, out, "\x1b[31;1m<File not found: nope.txt>\x1b[m")
	assert.Contains(t, out, "<File not found: gone.png>")
	assert.Contains(t, out, "after")
}

func TestRenderImageUsesConverter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	images := &fakeImages{}
	e := &Engine{Images: images}

	out, err := e.Render(context.Background(), parse(t, "![feh width=50%](cat.png)"), filepath.Join(dir, "talk.md"), 10, Size{100, 30})
	require.NoError(t, err)
	assert.Equal(t, path, images.path)
	assert.Equal(t, 50, images.maxCols)
	assert.Equal(t, 0, images.maxRows)
	assert.Contains(t, out, "IMG\nIMG\n")
}

func TestImageBox(t *testing.T) {
	vp := Size{Width: 100, Height: 30}
	assert.Equal(t, Size{Width: 66, Height: 20}, ImageBox("", vp))
	assert.Equal(t, Size{Width: 50, Height: 0}, ImageBox("feh width=50%", vp))
	assert.Equal(t, Size{Width: 0, Height: 15}, ImageBox("height=50%", vp))
	assert.Equal(t, Size{Width: 25, Height: 3}, ImageBox("width=25% height=10%", vp))
	assert.Equal(t, Size{Width: 100, Height: 30}, ImageBox("width=999% height=150%", vp))
}

func TestOpenCommand(t *testing.T) {
	assert.Equal(t, []string{"feh", "--zoom", "fill"}, OpenCommand("feh --zoom fill width=50%"))
	assert.Empty(t, OpenCommand("width=50%"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("deck", "a.png"), ResolvePath("deck/talk.md", "a.png"))
	assert.Equal(t, "a.png", ResolvePath("", "a.png"))
	abs := filepath.Join(t.TempDir(), "a.png")
	assert.Equal(t, abs, ResolvePath("deck/talk.md", abs))
	assert.True(t, IsImagePath("x/Y.JPEG"))
	assert.False(t, IsImagePath("x/y.go"))
}

type bogus struct{ doc.Node }

func TestRenderStructuralErrors(t *testing.T) {
	e := &Engine{}
	_, err := e.Render(context.Background(), &doc.Document{Children: []doc.Node{&doc.Paragraph{}}}, "", 10, Size{80, 24})
	assert.ErrorIs(t, err, doc.ErrMissingChildren)

	_, err = e.Render(context.Background(), &doc.Document{Children: []doc.Node{&bogus{}}}, "", 10, Size{80, 24})
	var unknown *doc.UnknownNodeError
	assert.ErrorAs(t, err, &unknown)
}

func TestLayoutEmptySlide(t *testing.T) {
	b, err := (&Engine{}).Layout(context.Background(), parse(t, "  \n"), "", Size{80, 24})
	require.NoError(t, err)
	assert.Equal(t, 0, b.Height)
	assert.Equal(t, 0, b.Width)
}

func TestLayoutSizesFramesToContent(t *testing.T) {
	e := &Engine{Theme: DefaultTheme()}
	src := "# Hi\n\n```txt\na fairly long line of code that sets the width\n```\n"
	b, err := e.Layout(context.Background(), parse(t, src), "", Size{Width: 200, Height: 40})
	require.NoError(t, err)

	for i, ln := range b.Lines {
		if ln == "" {
			continue
		}
		assert.Equal(t, b.Width, Width(ln), "line %d", i)
	}
}

func TestLayoutFixedPoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		title := rapid.StringMatching(`[A-Za-z ]{1,30}`).Draw(t, "title")
		code := rapid.SliceOfN(rapid.StringMatching(`[a-z漢 ]{0,40}`), 1, 5).Draw(t, "code")
		vw := rapid.IntRange(8, 240).Draw(t, "viewport")
		root := &doc.Document{Children: []doc.Node{
			&doc.Heading{Level: 1, Children: []doc.Node{&doc.Text{Value: title}}},
			&doc.Paragraph{Children: []doc.Node{&doc.Text{Value: "body text"}}},
			&doc.CodeBlock{Lang: "txt", Code: strings.Join(code, "\n")},
		}}

		e := &Engine{Theme: DefaultTheme()}
		vp := Size{Width: vw, Height: 40}
		b, err := e.Layout(context.Background(), root, "", vp)
		if err != nil {
			t.Fatalf("layout: %v", err)
		}
		again, err := e.Render(context.Background(), root, "", b.Width, vp)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if w := MaxWidth(splitLines(again)); w != b.Width {
			t.Fatalf("second pass not a fixed point: %d != %d", w, b.Width)
		}
	})
}
