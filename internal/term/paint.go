package term

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
)

const tabWidth = 4

// acsGlyphs maps the line-drawing character set onto Unicode.
var acsGlyphs = map[rune]rune{
	'l': tcell.RuneULCorner,
	'k': tcell.RuneURCorner,
	'm': tcell.RuneLLCorner,
	'j': tcell.RuneLRCorner,
	'q': tcell.RuneHLine,
	'x': tcell.RuneVLine,
	'n': tcell.RunePlus,
	't': tcell.RuneLTee,
	'u': tcell.RuneRTee,
	'v': tcell.RuneBTee,
	'w': tcell.RuneTTee,
	'`': tcell.RuneDiamond,
	'a': tcell.RuneCkBoard,
	'f': tcell.RuneDegree,
	'g': tcell.RunePlMinus,
	'~': tcell.RuneBullet,
	'0': tcell.RuneBlock,
	'o': tcell.RuneS1,
	's': tcell.RuneS9,
	'y': tcell.RuneLEqual,
	'z': tcell.RuneGEqual,
	'{': tcell.RunePi,
	'|': tcell.RuneNEqual,
	'}': tcell.RuneSterling,
}

func (t *Terminal) paint(s string) {
	if t.parser == nil {
		t.parser = ansi.NewParser()
	}
	var state byte
	for len(s) > 0 {
		seq, width, n, next := ansi.DecodeSequenceWc(s, state, t.parser)
		state = next
		if n <= 0 {
			break
		}
		s = s[n:]

		switch {
		case width > 0:
			t.put(seq, width)
		case ansi.HasCsiPrefix(seq):
			cmd := ansi.Cmd(t.parser.Command())
			if cmd.Final() == 'm' && cmd.Prefix() == 0 && cmd.Intermediate() == 0 {
				t.sgr(t.parser.Params())
			}
		case ansi.HasEscPrefix(seq):
			cmd := ansi.Cmd(t.parser.Command())
			if cmd.Intermediate() == '(' {
				t.acs = cmd.Final() == '0'
			}
		case len(seq) == 1:
			t.control(seq[0])
		}
	}
}

func (t *Terminal) control(b byte) {
	switch b {
	case '\b':
		t.x = max(0, t.x-1)
	case '\r':
		t.x = 0
	case '\n':
		t.x = 0
		t.y++
	case '\t':
		for i := 0; i < tabWidth; i++ {
			t.put(" ", 1)
		}
	}
}

// put draws one grapheme cluster at the cursor and advances past it.
func (t *Terminal) put(cluster string, width int) {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return
	}
	main, comb := runes[0], runes[1:]
	if t.acs && len(comb) == 0 {
		if g, ok := acsGlyphs[main]; ok {
			main = g
		}
	}
	if len(comb) == 0 {
		comb = nil
	}
	t.screen.SetContent(t.x, t.y, main, comb, t.pen)
	t.x += width
}

// sgr applies a graphic rendition sequence to the pen.
func (t *Terminal) sgr(params ansi.Params) {
	if len(params) == 0 {
		t.pen = tcell.StyleDefault
		return
	}
	for i := 0; i < len(params); i++ {
		code := params[i].Param(0)
		switch {
		case code == 0:
			t.pen = tcell.StyleDefault
		case code == 1:
			t.pen = t.pen.Bold(true)
		case code == 2:
			t.pen = t.pen.Dim(true)
		case code == 3:
			t.pen = t.pen.Italic(true)
		case code == 4:
			t.pen = t.pen.Underline(true)
		case code == 5 || code == 6:
			t.pen = t.pen.Blink(true)
		case code == 7:
			t.pen = t.pen.Reverse(true)
		case code == 9:
			t.pen = t.pen.StrikeThrough(true)
		case code == 21 || code == 22:
			t.pen = t.pen.Bold(false).Dim(false)
		case code == 23:
			t.pen = t.pen.Italic(false)
		case code == 24:
			t.pen = t.pen.Underline(false)
		case code == 25:
			t.pen = t.pen.Blink(false)
		case code == 27:
			t.pen = t.pen.Reverse(false)
		case code == 29:
			t.pen = t.pen.StrikeThrough(false)
		case code >= 30 && code <= 37:
			t.pen = t.pen.Foreground(tcell.PaletteColor(code - 30))
		case code == 38:
			c, used := extendedColor(params[i+1:])
			t.pen = t.pen.Foreground(c)
			i += used
		case code == 39:
			t.pen = t.pen.Foreground(tcell.ColorDefault)
		case code >= 40 && code <= 47:
			t.pen = t.pen.Background(tcell.PaletteColor(code - 40))
		case code == 48:
			c, used := extendedColor(params[i+1:])
			t.pen = t.pen.Background(c)
			i += used
		case code == 49:
			t.pen = t.pen.Background(tcell.ColorDefault)
		case code >= 90 && code <= 97:
			t.pen = t.pen.Foreground(tcell.PaletteColor(code - 90 + 8))
		case code >= 100 && code <= 107:
			t.pen = t.pen.Background(tcell.PaletteColor(code - 100 + 8))
		}
	}
}

// extendedColor decodes the 5;N and 2;R;G;B forms following a 38 or 48 and
// reports how many parameters it used. A malformed form uses the rest.
func extendedColor(rest ansi.Params) (tcell.Color, int) {
	if len(rest) >= 2 && rest[0].Param(0) == 5 {
		return tcell.PaletteColor(rest[1].Param(0)), 2
	}
	if len(rest) >= 4 && rest[0].Param(0) == 2 {
		r, g, b := rest[1].Param(0), rest[2].Param(0), rest[3].Param(0)
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), 4
	}
	return tcell.ColorDefault, len(rest)
}
