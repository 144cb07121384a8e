package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/render"
	"github.com/baaaaaaaka/slides/internal/style"
	"github.com/baaaaaaaka/slides/internal/term"
)

// draw repaints the whole screen as one buffered frame.
func draw(ctx context.Context, t *term.Terminal, s *uiState, opts Options) error {
	var err error
	t.Buffered(func() {
		t.Clear(term.Screen)
		if s.raw {
			drawRaw(t, s, opts)
		} else if err = drawSlide(ctx, t, s, opts); err != nil {
			return
		}
		drawIndicator(t, s)
		drawStatus(t, s)
		if s.mode != browsing {
			drawPrompt(t, s)
		}
	})
	return err
}

func drawSlide(ctx context.Context, t *term.Terminal, s *uiState, opts Options) error {
	b, err := s.layout(ctx, opts)
	if err != nil {
		return err
	}
	s.height = b.Height
	s.scroll = min(s.scroll, s.maxScroll())

	at := render.Place(b, s.viewport, s.scroll)
	for i, line := range b.Lines {
		y := at.Y + i
		if y < 0 || y >= s.viewport.Height {
			continue
		}
		t.Move(at.X, y)
		t.Write(line)
	}
	return nil
}

func drawRaw(t *term.Terminal, s *uiState, opts Options) {
	text := s.slides[s.index].Text
	if opts.Highlighter != nil {
		text, _ = opts.Highlighter.Highlight(text, "markdown")
	}
	lines := render.NewBlock(text).Lines
	s.height = len(lines)
	s.scroll = min(s.scroll, s.maxScroll())

	for i, line := range lines {
		y := i - s.scroll
		if y < 0 || y >= s.viewport.Height {
			continue
		}
		t.Move(0, y)
		t.Write(line)
	}
}

// layout returns the current slide's block, reusing an earlier layout at the
// same viewport unless the slide runs commands when rendered.
func (s *uiState) layout(ctx context.Context, opts Options) (render.Block, error) {
	if s.cache == nil || s.cacheSize != s.viewport {
		s.cache = map[int]render.Block{}
		s.cacheSize = s.viewport
	}
	if b, ok := s.cache[s.index]; ok {
		return b, nil
	}
	slide := s.slides[s.index]
	b, err := opts.Engine.Layout(ctx, s.tree, slide.Origin, s.viewport)
	if err != nil {
		return render.Block{}, fmt.Errorf("lay out slide %d: %w", s.index+1, err)
	}
	if !doc.HasSideEffects(s.tree) {
		s.cache[s.index] = b
	}
	return b, nil
}

func drawIndicator(t *term.Terminal, s *uiState) {
	pos := fmt.Sprintf("%d/%d", s.index+1, len(s.slides))
	t.Move(max(0, s.viewport.Width-runewidth.StringWidth(pos)), s.viewport.Height-1)
	t.WithAttributes(func() { t.Write(pos) }, style.Dim)
}

// drawStatus shows a one-off message on the bottom line, left of the
// indicator. The message is dropped once shown.
func drawStatus(t *term.Terminal, s *uiState) {
	if s.status == "" {
		return
	}
	room := s.viewport.Width - runewidth.StringWidth(fmt.Sprintf(" %d/%d", s.index+1, len(s.slides))) - 1
	line, _, _ := strings.Cut(s.status, "\n")
	msg := runewidth.Truncate(line, max(0, room), "…")
	t.Move(1, s.viewport.Height-1)
	t.WithAttributes(func() { t.Write(msg) }, style.Bold)
	s.status = ""
}

// drawPrompt shows the open input line with what has been typed so far,
// leaving the cursor after it.
func drawPrompt(t *term.Terminal, s *uiState) {
	t.Move(1, s.viewport.Height-1)
	t.Clear(term.LineToEnd)
	t.WithAttributes(func() { t.Write(s.prompt) }, style.Bold)
	t.Write(s.input)
}
