// Package term is the presentation's handle on the terminal: cursor
// addressed writes of escape-styled text, key and mouse input, buffered
// flushing and handing the terminal to child processes.
package term

import (
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"

	"github.com/baaaaaaaka/slides/internal/proc"
	"github.com/baaaaaaaka/slides/internal/style"
)

var newScreen = tcell.NewScreen

var stopProcess = proc.Stop

// Region selects what Clear erases.
type Region int

const (
	Screen Region = iota
	Line
	LineToEnd
)

// Terminal owns a tcell screen. Writes go through a pen that, like a real
// terminal, keeps its graphic rendition until an escape changes it.
type Terminal struct {
	screen tcell.Screen
	x, y   int
	pen    tcell.Style
	acs    bool
	parser *ansi.Parser

	buffering int
	cursor    bool
}

// Open initialises the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := newScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseButtonEvents)
	return New(screen), nil
}

// New wraps an initialised screen.
func New(screen tcell.Screen) *Terminal {
	t := &Terminal{screen: screen, pen: tcell.StyleDefault, parser: ansi.NewParser()}
	screen.HideCursor()
	return t
}

func (t *Terminal) Screen() tcell.Screen { return t.screen }

func (t *Terminal) Close() {
	t.screen.Fini()
}

func (t *Terminal) Size() (width, height int) {
	return t.screen.Size()
}

func (t *Terminal) Move(x, y int) {
	t.x, t.y = x, y
	t.placeCursor()
}

// Write draws s at the cursor, interpreting graphic rendition, character set
// and cursor control bytes. Other escape sequences are consumed silently.
func (t *Terminal) Write(s string) {
	t.paint(s)
	t.placeCursor()
	t.flush()
}

func (t *Terminal) Clear(r Region) {
	w, h := t.screen.Size()
	switch r {
	case Screen:
		t.screen.Clear()
	case Line:
		for x := 0; x < w; x++ {
			t.screen.SetContent(x, t.y, ' ', nil, tcell.StyleDefault)
		}
	case LineToEnd:
		if t.y < 0 || t.y >= h {
			break
		}
		for x := max(0, t.x); x < w; x++ {
			t.screen.SetContent(x, t.y, ' ', nil, tcell.StyleDefault)
		}
	}
	t.flush()
}

// SetAttributes turns attrs on for subsequent writes.
func (t *Terminal) SetAttributes(as ...style.Attr) {
	t.paint(style.Seq(as...))
}

// UnsetAttributes turns attrs off again. With no attrs everything is reset.
func (t *Terminal) UnsetAttributes(as ...style.Attr) {
	t.paint(style.Off(as...))
}

// WithAttributes runs fn with attrs set and unsets them afterwards.
func (t *Terminal) WithAttributes(fn func(), as ...style.Attr) {
	t.SetAttributes(as...)
	defer t.UnsetAttributes(as...)
	fn()
}

func (t *Terminal) ShowCursor() {
	t.cursor = true
	t.placeCursor()
	t.flush()
}

func (t *Terminal) HideCursor() {
	t.cursor = false
	t.screen.HideCursor()
	t.flush()
}

func (t *Terminal) placeCursor() {
	if t.cursor {
		t.screen.ShowCursor(t.x, t.y)
	}
}

// Buffered runs fn with flushing deferred, then shows the result once.
// Nested scopes flush when the outermost one ends. The pen starts out reset.
func (t *Terminal) Buffered(fn func()) {
	if t.buffering == 0 {
		t.pen = tcell.StyleDefault
		t.acs = false
	}
	t.buffering++
	defer func() {
		t.buffering--
		t.flush()
	}()
	fn()
}

func (t *Terminal) flush() {
	if t.buffering == 0 {
		t.screen.Show()
	}
}

// Sync redraws the whole physical screen.
func (t *Terminal) Sync() {
	t.screen.Sync()
}

// Disable hands the terminal back to the shell, for a child process to use.
func (t *Terminal) Disable() error {
	return t.screen.Suspend()
}

// Enable takes the terminal back after Disable.
func (t *Terminal) Enable() error {
	if err := t.screen.Resume(); err != nil {
		return err
	}
	t.screen.Sync()
	return nil
}

// Disabled runs fn with the terminal handed back.
func (t *Terminal) Disabled(fn func()) error {
	if err := t.Disable(); err != nil {
		return err
	}
	fn()
	return t.Enable()
}

// Suspend stops the whole program as ^Z would in a shell, restoring the
// terminal first and reclaiming it once the program is continued.
func (t *Terminal) Suspend() error {
	return t.Disabled(func() {
		_ = stopProcess()
	})
}

// namedEvent carries a Key posted from outside the input stream.
type namedEvent struct {
	when time.Time
	name string
}

func (e *namedEvent) When() time.Time { return e.when }

// PostReload queues a Reload key. It is safe to call from any goroutine.
func (t *Terminal) PostReload() {
	_ = t.screen.PostEvent(&namedEvent{when: time.Now(), name: KeyReload})
}

// PostInterrupt queues an Interrupt key, waking a blocked GetKey.
func (t *Terminal) PostInterrupt() {
	_ = t.screen.PostEvent(&namedEvent{when: time.Now(), name: KeyInterrupt})
}
