// Package style is the closed set of terminal styling directives emitted by
// the renderer. Every directive produced here is one the width measurer and
// the terminal painter know how to consume.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is a single graphic-rendition attribute.
type Attr int

const (
	Normal Attr = iota
	Bold
	Dim
	Italic
	Underline
	Reverse
	Strike

	FgBlack
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
	FgDefault

	BgBlack
	BgRed
	BgGreen
	BgYellow
	BgBlue
	BgMagenta
	BgCyan
	BgWhite
	BgDefault

	attrCount
)

// Reset clears every attribute.
const Reset = "\x1b[m"

// Line-drawing character set switches. Between ACSOn and ACSOff the letters
// below are drawn as box glyphs.
const (
	ACSOn  = "\x1b(0"
	ACSOff = "\x1b(B"
)

const (
	GlyphTopLeft     = 'l'
	GlyphTopRight    = 'k'
	GlyphBottomLeft  = 'm'
	GlyphBottomRight = 'j'
	GlyphHorizontal  = 'q'
	GlyphVertical    = 'x'
	GlyphDiamond     = '`'
)

type attrInfo struct {
	name string
	on   int
	off  int
}

var attrs = [attrCount]attrInfo{
	Normal:    {"normal", 0, 0},
	Bold:      {"bold", 1, 22},
	Dim:       {"dim", 2, 22},
	Italic:    {"italic", 3, 23},
	Underline: {"underline", 4, 24},
	Reverse:   {"reverse", 7, 27},
	Strike:    {"strike", 9, 29},

	FgBlack:   {"black", 30, 39},
	FgRed:     {"red", 31, 39},
	FgGreen:   {"green", 32, 39},
	FgYellow:  {"yellow", 33, 39},
	FgBlue:    {"blue", 34, 39},
	FgMagenta: {"magenta", 35, 39},
	FgCyan:    {"cyan", 36, 39},
	FgWhite:   {"white", 37, 39},
	FgDefault: {"default", 39, 39},

	BgBlack:   {"bg-black", 40, 49},
	BgRed:     {"bg-red", 41, 49},
	BgGreen:   {"bg-green", 42, 49},
	BgYellow:  {"bg-yellow", 43, 49},
	BgBlue:    {"bg-blue", 44, 49},
	BgMagenta: {"bg-magenta", 45, 49},
	BgCyan:    {"bg-cyan", 46, 49},
	BgWhite:   {"bg-white", 47, 49},
	BgDefault: {"bg-default", 49, 49},
}

func (a Attr) valid() bool { return a >= 0 && a < attrCount }

func (a Attr) String() string {
	if !a.valid() {
		return "Attr(" + strconv.Itoa(int(a)) + ")"
	}
	return attrs[a].name
}

// Code is the SGR parameter that turns the attribute on.
func (a Attr) Code() int {
	if !a.valid() {
		return 0
	}
	return attrs[a].on
}

// OffCode is the SGR parameter that turns the attribute off again without
// disturbing unrelated attributes.
func (a Attr) OffCode() int {
	if !a.valid() {
		return 0
	}
	return attrs[a].off
}

// Seq returns the SGR sequence enabling all attrs. With no attrs it is Reset.
func Seq(as ...Attr) string {
	if len(as) == 0 {
		return Reset
	}
	codes := make([]string, 0, len(as))
	for _, a := range as {
		codes = append(codes, strconv.Itoa(a.Code()))
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// Off returns the SGR sequence disabling attrs.
func Off(as ...Attr) string {
	if len(as) == 0 {
		return Reset
	}
	seen := map[int]bool{}
	codes := make([]string, 0, len(as))
	for _, a := range as {
		off := a.OffCode()
		if seen[off] {
			continue
		}
		seen[off] = true
		codes = append(codes, strconv.Itoa(off))
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// Wrap surrounds s with the on and off sequences for attrs.
func Wrap(s string, as ...Attr) string {
	return Seq(as...) + s + Off(as...)
}

func FgRGB(r, g, b uint8) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

func BgRGB(r, g, b uint8) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Glyphs renders s in the line-drawing character set.
func Glyphs(s string) string {
	return ACSOn + s + ACSOff
}

// ParseColor maps a colour token to its foreground attribute. Only the eight
// base colours and "default" are accepted.
func ParseColor(name string) (Attr, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for a := FgBlack; a <= FgDefault; a++ {
		if attrs[a].name == key {
			return a, nil
		}
	}
	return Normal, fmt.Errorf("unknown colour %q", name)
}
