package term

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/baaaaaaaka/slides/internal/style"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(func() { screen.Fini() })
	return screen
}

type countingScreen struct {
	tcell.Screen
	shows int
}

func (c *countingScreen) Show() {
	c.shows++
	c.Screen.Show()
}

func cellAt(t *testing.T, s tcell.Screen, x, y int) (rune, tcell.Style) {
	t.Helper()
	r, _, st, _ := s.GetContent(x, y)
	return r, st
}

func rowText(s tcell.Screen, y, width int) string {
	out := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestWriteAppliesGraphicRendition(t *testing.T) {
	screen := newTestScreen(t, 20, 4)
	term := New(screen)
	term.Move(2, 1)
	term.Write("\x1b[1;31mhi\x1b[m x")

	r, st := cellAt(t, screen, 2, 1)
	if r != 'h' {
		t.Fatalf("expected h, got %q", r)
	}
	fg, _, attrs := st.Decompose()
	if fg != tcell.PaletteColor(1) {
		t.Fatalf("expected red foreground, got %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("expected bold, got %v", attrs)
	}

	r, st = cellAt(t, screen, 5, 1)
	if r != 'x' {
		t.Fatalf("expected x after reset, got %q", r)
	}
	if st != tcell.StyleDefault {
		t.Fatalf("expected default style after reset, got %v", st)
	}
}

func TestWriteExtendedColors(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	term := New(screen)
	term.Write("\x1b[38;2;1;2;3mA\x1b[48;5;200mB\x1b[39;49mC\x1b[92mD")

	_, st := cellAt(t, screen, 0, 0)
	if fg, _, _ := st.Decompose(); fg != tcell.NewRGBColor(1, 2, 3) {
		t.Fatalf("expected truecolor foreground, got %v", fg)
	}
	_, st = cellAt(t, screen, 1, 0)
	if _, bg, _ := st.Decompose(); bg != tcell.PaletteColor(200) {
		t.Fatalf("expected palette background, got %v", bg)
	}
	_, st = cellAt(t, screen, 2, 0)
	if fg, bg, _ := st.Decompose(); fg != tcell.ColorDefault || bg != tcell.ColorDefault {
		t.Fatalf("expected default colors, got %v/%v", fg, bg)
	}
	_, st = cellAt(t, screen, 3, 0)
	if fg, _, _ := st.Decompose(); fg != tcell.PaletteColor(10) {
		t.Fatalf("expected bright green, got %v", fg)
	}
}

func TestWriteLineDrawingGlyphs(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	term := New(screen)
	term.Write(style.Glyphs("lqk") + "q")

	if got := rowText(screen, 0, 4); got != "┌─┐q" {
		t.Fatalf("expected box corners then a plain q, got %q", got)
	}
}

func TestWriteControlBytes(t *testing.T) {
	screen := newTestScreen(t, 10, 3)
	term := New(screen)
	term.Write("ab\b \b")
	term.Write("\ncd\rE\n\tx")

	if got := rowText(screen, 0, 2); got != "a " {
		t.Fatalf("backspace erase failed: %q", got)
	}
	if got := rowText(screen, 1, 2); got != "Ed" {
		t.Fatalf("carriage return failed: %q", got)
	}
	if r, _ := cellAt(t, screen, 4, 2); r != 'x' {
		t.Fatalf("expected tab to advance four cells, got %q", r)
	}
}

func TestWriteWideAndCombining(t *testing.T) {
	screen := newTestScreen(t, 10, 1)
	term := New(screen)
	term.Write("漢e\u0301z")

	if r, _ := cellAt(t, screen, 0, 0); r != '漢' {
		t.Fatalf("expected wide rune, got %q", r)
	}
	r, comb, _, _ := screen.GetContent(2, 0)
	if r != 'e' || len(comb) != 1 || comb[0] != '\u0301' {
		t.Fatalf("expected e with combining accent, got %q %q", r, comb)
	}
	if r, _ := cellAt(t, screen, 3, 0); r != 'z' {
		t.Fatalf("expected z after the cluster, got %q", r)
	}
}

func TestCursorFollowsWrites(t *testing.T) {
	screen := newTestScreen(t, 10, 3)
	term := New(screen)
	term.Move(0, 2)
	term.ShowCursor()
	term.Write("ab\b")

	x, y, visible := screen.GetCursor()
	if !visible || x != 1 || y != 2 {
		t.Fatalf("expected visible cursor at 1,2, got %d,%d %v", x, y, visible)
	}
	term.HideCursor()
	if _, _, visible := screen.GetCursor(); visible {
		t.Fatalf("expected hidden cursor")
	}
}

func TestAttributesPersistUntilUnset(t *testing.T) {
	screen := newTestScreen(t, 10, 1)
	term := New(screen)
	term.WithAttributes(func() { term.Write("a") }, style.Dim)
	term.Write("b")

	_, st := cellAt(t, screen, 0, 0)
	if _, _, attrs := st.Decompose(); attrs&tcell.AttrDim == 0 {
		t.Fatalf("expected dim inside scope")
	}
	_, st = cellAt(t, screen, 1, 0)
	if _, _, attrs := st.Decompose(); attrs&tcell.AttrDim != 0 {
		t.Fatalf("expected dim cleared after scope")
	}
}

func TestBufferedShowsOnce(t *testing.T) {
	counting := &countingScreen{Screen: newTestScreen(t, 10, 2)}
	term := New(counting)
	term.Write("\x1b[1m")

	term.Buffered(func() {
		term.Write("a")
		term.Clear(LineToEnd)
		term.Buffered(func() { term.Write("b") })
		term.Write("c")
	})
	if counting.shows != 2 {
		t.Fatalf("expected one show for the scope after the first write, got %d", counting.shows)
	}
	_, st := cellAt(t, counting, 0, 0)
	if st != tcell.StyleDefault {
		t.Fatalf("expected buffered scope to start with a reset pen, got %v", st)
	}
}

func TestClearRegions(t *testing.T) {
	screen := newTestScreen(t, 6, 2)
	term := New(screen)
	term.Write("abcdef\nghijkl")

	term.Move(2, 0)
	term.Clear(LineToEnd)
	if got := rowText(screen, 0, 6); got != "ab    " {
		t.Fatalf("clear to end failed: %q", got)
	}
	term.Move(0, 1)
	term.Clear(Line)
	if got := rowText(screen, 1, 6); got != "      " {
		t.Fatalf("clear line failed: %q", got)
	}
}

func TestGetKeyNames(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	term := New(screen)

	cases := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyRune, 'q', tcell.ModNone, "q"},
		{tcell.KeyRune, ' ', tcell.ModNone, "Space"},
		{tcell.KeyLeft, 0, tcell.ModNone, "Left"},
		{tcell.KeyPgDn, 0, tcell.ModNone, "Page down"},
		{tcell.KeyEnter, 0, tcell.ModNone, "Enter"},
		{tcell.KeyBackspace2, 0, tcell.ModNone, "Backspace"},
		{tcell.KeyEscape, 0, tcell.ModNone, "Escape"},
		{tcell.KeyRune, 'u', tcell.ModCtrl, "Ctrl-u"},
	}
	for _, tc := range cases {
		screen.InjectKey(tc.key, tc.r, tc.mod)
		if got := term.GetKey(); got.Name != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got.Name)
		}
	}
}

func TestGetKeyMouseResizeAndReload(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	term := New(screen)

	screen.InjectMouse(3, 1, tcell.WheelDown, tcell.ModNone)
	if k := term.GetKey(); k.Name != "Mouse wheel down" || k.X != 3 || k.Y != 1 {
		t.Fatalf("unexpected mouse key %+v", k)
	}
	screen.InjectMouse(3, 1, tcell.ButtonNone, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	if k := term.GetKey(); k.Name != "j" {
		t.Fatalf("expected button release to be skipped, got %+v", k)
	}
	if err := screen.PostEvent(tcell.NewEventResize(20, 5)); err != nil {
		t.Fatalf("post resize: %v", err)
	}
	if k := term.GetKey(); k.Name != KeyResize {
		t.Fatalf("expected resize, got %+v", k)
	}
	term.PostReload()
	if k := term.GetKey(); k.Name != KeyReload {
		t.Fatalf("expected reload, got %+v", k)
	}
	term.PostInterrupt()
	if k := term.GetKey(); k.Name != KeyInterrupt {
		t.Fatalf("expected interrupt, got %+v", k)
	}
}

func TestGetKeyAfterClose(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	term := New(screen)
	term.Close()
	if k := term.GetKey(); k.Name != KeyClosed {
		t.Fatalf("expected closed, got %+v", k)
	}
}

func TestSuspendStopsProcess(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	term := New(screen)

	old := stopProcess
	t.Cleanup(func() { stopProcess = old })
	stopped := 0
	stopProcess = func() error {
		stopped++
		return errors.New("ignored")
	}
	if err := term.Suspend(); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if stopped != 1 {
		t.Fatalf("expected one stop, got %d", stopped)
	}

	ran := false
	if err := term.Disabled(func() { ran = true }); err != nil || !ran {
		t.Fatalf("disabled scope: ran=%v err=%v", ran, err)
	}
}
