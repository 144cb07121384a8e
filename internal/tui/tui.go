package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	clog "github.com/charmbracelet/log"

	"github.com/baaaaaaaka/slides/internal/deck"
	"github.com/baaaaaaaka/slides/internal/demo"
	"github.com/baaaaaaaka/slides/internal/doc"
	"github.com/baaaaaaaka/slides/internal/logging"
	"github.com/baaaaaaaka/slides/internal/proc"
	"github.com/baaaaaaaka/slides/internal/render"
	"github.com/baaaaaaaka/slides/internal/term"
)

var openTerminal = term.Open

const pageRows = 10

type Options struct {
	Slides      []deck.Slide
	Engine      *render.Engine
	Highlighter render.Highlighter
	Launcher    demo.Launcher
	Logger      *clog.Logger
	Start       int

	// Reload re-reads the deck after a Reload key, posted by the file watcher.
	Reload         func() ([]deck.Slide, error)
	PauseAfterDemo bool
	Stdin          io.Reader
	Stdout         io.Writer
	Copy           func(string) error

	// Terminal is opened when nil, and then closed before returning.
	Terminal *term.Terminal
}

type mode int

const (
	browsing mode = iota
	enteringSlideNumber
	enteringSearch
)

type uiState struct {
	slides    []deck.Slide
	index     int
	prevIndex int
	scroll    int
	raw       bool
	search    string
	mode      mode
	prompt    string
	input     string

	tree       *doc.Document
	demos      []demo.Action
	demoCursor int

	viewport render.Size
	height   int
	redraw   bool
	status   string
	quit     bool

	cache     map[int]render.Block
	cacheSize render.Size
}

func newState(slides []deck.Slide, start int, viewport render.Size) *uiState {
	return &uiState{
		slides:    slides,
		index:     clamp(start, 0, len(slides)-1),
		prevIndex: -1,
		viewport:  viewport,
		redraw:    true,
	}
}

// Present shows the slides until the user quits and returns the index of the
// slide on screen at that moment.
func Present(ctx context.Context, opts Options) (int, error) {
	if len(opts.Slides) == 0 {
		return 0, errors.New("no slides to present")
	}
	opts = withDefaults(opts)

	t := opts.Terminal
	if t == nil {
		var err error
		t, err = openTerminal()
		if err != nil {
			return 0, err
		}
		defer t.Close()
	}

	w, h := t.Size()
	state := newState(opts.Slides, opts.Start, render.Size{Width: w, Height: h})
	opts.Logger.Info("presenting", "slides", len(state.slides), "start", state.index, "viewport", fmt.Sprintf("%dx%d", w, h))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			t.PostInterrupt()
		case <-done:
		}
	}()

	for !state.quit {
		if state.index != state.prevIndex {
			if err := state.enterSlide(opts); err != nil {
				return state.index, err
			}
		}
		if state.redraw {
			if err := draw(ctx, t, state, opts); err != nil {
				return state.index, err
			}
			state.redraw = false
		}

		key := t.GetKey()
		if key.Name == term.KeyInterrupt {
			return state.index, ctx.Err()
		}
		if err := handleKey(ctx, t, state, opts, key); err != nil {
			return state.index, err
		}
	}
	return state.index, nil
}

func withDefaults(opts Options) Options {
	if opts.Engine == nil {
		opts.Engine = &render.Engine{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Launcher == nil {
		opts.Launcher = &proc.Runner{}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	return opts
}

// enterSlide parses the current slide and rebuilds its demo queue.
func (s *uiState) enterSlide(opts Options) error {
	slide := s.slides[s.index]
	tree, err := doc.Parse([]byte(slide.Text))
	if err != nil {
		return fmt.Errorf("parse slide %d: %w", s.index+1, err)
	}
	src := demo.Source{Origin: slide.Origin, Index: s.index, Count: len(s.slides)}
	actions, err := demo.Collect(tree, src, opts.Launcher)
	if err != nil {
		return fmt.Errorf("slide %d: %w", s.index+1, err)
	}
	s.tree = tree
	s.demos = actions
	s.demoCursor = 0
	s.scroll = 0
	s.redraw = true
	s.prevIndex = s.index
	opts.Logger.Debug("slide", "index", s.index, "origin", slide.Origin, "demos", len(actions))
	return nil
}

func (s *uiState) maxScroll() int {
	return render.MaxScroll(s.height, s.viewport)
}

func handleKey(ctx context.Context, t *term.Terminal, s *uiState, opts Options, key term.Key) error {
	switch key.Name {
	case term.KeyResize:
		w, h := t.Size()
		s.viewport = render.Size{Width: w, Height: h}
		t.Sync()
		s.redraw = true
		return nil
	case term.KeyReload:
		return reload(s, opts)
	}

	switch s.mode {
	case enteringSlideNumber:
		handleSlideNumberKey(t, s, key.Name)
		return nil
	case enteringSearch:
		handleSearchKey(t, s, key.Name)
		return nil
	}

	last := len(s.slides) - 1
	switch name := key.Name; name {
	case "q", "Ctrl-c", term.KeyClosed:
		s.quit = true
	case "Left", "k", "Backspace":
		s.index = max(0, s.index-1)
	case "Right", "Space", "j":
		s.index = min(last, s.index+1)
	case "Up", "Mouse wheel up":
		s.scroll = max(0, s.scroll-1)
		s.redraw = true
	case "Ctrl-u":
		s.scroll = max(0, s.scroll-pageRows)
		s.redraw = true
	case "Down", "Mouse wheel down":
		s.scroll = min(s.scroll+1, s.maxScroll())
		s.redraw = true
	case "Ctrl-d":
		s.scroll = min(s.scroll+pageRows, s.maxScroll())
		s.redraw = true
	case "Ctrl-r", "r":
		s.cache = nil
		t.Sync()
		s.redraw = true
	case "Home", "h":
		s.index = 0
	case "End", "l":
		s.index = last
	case "Ctrl-z":
		if err := t.Suspend(); err != nil {
			return err
		}
		s.redraw = true
	case "Enter":
		return runDemo(ctx, t, s, opts)
	case "`":
		s.raw = !s.raw
		s.redraw = true
	case "/":
		beginInput(t, s, enteringSearch, "Search: ", "")
	case "n":
		if s.search != "" {
			s.index, _ = findSlide(s.slides, s.search, s.index, 1)
		}
	case "p":
		if s.search != "" {
			s.index, _ = findSlide(s.slides, s.search, s.index, -1)
		}
	case "y":
		yank(s, opts)
	default:
		if isDigit(name) {
			beginInput(t, s, enteringSlideNumber, "Go to slide: ", name)
		}
	}
	return nil
}

func beginInput(t *term.Terminal, s *uiState, m mode, prompt, input string) {
	s.mode = m
	s.prompt = prompt
	s.input = input
	t.Buffered(func() { drawPrompt(t, s) })
	t.ShowCursor()
}

func endInput(t *term.Terminal, s *uiState) {
	s.mode = browsing
	s.prompt = ""
	s.input = ""
	t.HideCursor()
	s.redraw = true
}

func handleSlideNumberKey(t *term.Terminal, s *uiState, name string) {
	switch {
	case isDigit(name):
		s.input += name
		t.Write(name)
	case name == "Enter":
		n, err := strconv.Atoi(s.input)
		if err == nil {
			s.index = clamp(n-1, 0, len(s.slides)-1)
		}
		endInput(t, s)
	default:
		endInput(t, s)
	}
}

func handleSearchKey(t *term.Terminal, s *uiState, name string) {
	switch name {
	case "Enter":
		s.search = s.input
		if s.search != "" {
			s.index, _ = findSlide(s.slides, s.search, s.index, 1)
		}
		endInput(t, s)
	case "Ctrl-c", "Escape", term.KeyClosed:
		endInput(t, s)
	case "Backspace":
		if s.input != "" {
			_, size := utf8.DecodeLastRuneInString(s.input)
			s.input = s.input[:len(s.input)-size]
			t.Write("\b \b")
		}
	case "Space":
		s.input += " "
		t.Write(" ")
	default:
		if utf8.RuneCountInString(name) == 1 {
			s.input += name
			t.Write(name)
		}
	}
}

// findSlide scans every slide once, circularly, starting one step away from
// index in the given direction. It returns index unchanged when nothing
// matches.
func findSlide(slides []deck.Slide, query string, index, step int) (int, bool) {
	n := len(slides)
	needle := strings.ToLower(query)
	for offset := 1; offset <= n; offset++ {
		i := ((index+step*offset)%n + n) % n
		if strings.Contains(strings.ToLower(slides[i].Text), needle) {
			return i, true
		}
	}
	return index, false
}

func runDemo(ctx context.Context, t *term.Terminal, s *uiState, opts Options) error {
	if len(s.demos) == 0 {
		return nil
	}
	action := s.demos[s.demoCursor]
	opts.Logger.Info("demo", "index", s.index, "cursor", s.demoCursor, "kind", action.Kind, "label", action.Label)

	var runErr error
	err := t.Disabled(func() {
		runErr = action.Run(ctx)
		if opts.PauseAfterDemo {
			pause(opts.Stdin, opts.Stdout)
		}
	})
	s.demoCursor = min(s.demoCursor+1, len(s.demos)-1)
	s.redraw = true
	if runErr != nil {
		opts.Logger.Warn("demo failed", "kind", action.Kind, "label", action.Label, "err", runErr)
		s.status = fmt.Sprintf("%s failed: %v", action.Kind, runErr)
	}
	return err
}

func pause(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "\nPress Enter to return to the slides...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}

func reload(s *uiState, opts Options) error {
	s.redraw = true
	if opts.Reload == nil {
		return nil
	}
	slides, err := opts.Reload()
	if err == nil && len(slides) == 0 {
		err = errors.New("no slides")
	}
	if err != nil {
		opts.Logger.Warn("reload failed", "err", err)
		s.status = "Reload failed: " + err.Error()
		return nil
	}
	opts.Logger.Info("reloaded", "slides", len(slides))
	scroll := s.scroll
	s.slides = slides
	s.index = clamp(s.index, 0, len(slides)-1)
	s.cache = nil
	if err := s.enterSlide(opts); err != nil {
		return err
	}
	s.scroll = scroll
	return nil
}

func yank(s *uiState, opts Options) {
	s.redraw = true
	if err := opts.Copy(s.slides[s.index].Text); err != nil {
		opts.Logger.Warn("copy failed", "err", err)
		s.status = "Copy failed: " + err.Error()
		return
	}
	s.status = fmt.Sprintf("Copied slide %d", s.index+1)
}

func isDigit(name string) bool {
	return len(name) == 1 && name[0] >= '0' && name[0] <= '9'
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
