package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baaaaaaaka/slides/internal/style"
)

type BoxOptions struct {
	LineNumbers bool
	// Color is the border colour; style.Normal leaves the border unstyled.
	Color    style.Attr
	MinWidth int
}

// Boxed frames lines in a border. Every produced line measures exactly the
// returned block's Width.
func Boxed(lines []string, opts BoxOptions) Block {
	if len(lines) == 0 {
		lines = []string{""}
	}
	expanded := make([]string, len(lines))
	for i, ln := range lines {
		expanded[i] = strings.ReplaceAll(ln, "\t", strings.Repeat(" ", tabWidth))
	}

	numWidth := 0
	width := 2 + MaxWidth(expanded) + 2
	if opts.LineNumbers {
		numWidth = len(strconv.Itoa(len(expanded)))
		width += numWidth + 1
	}
	width = max(opts.MinWidth, width)

	color := ""
	if opts.Color != style.Normal {
		color = style.Seq(opts.Color)
	}
	edge := color + style.Glyphs(string(style.GlyphVertical))

	out := make([]string, 0, len(expanded)+2)
	out = append(out, color+style.Glyphs(
		string(style.GlyphTopLeft)+strings.Repeat(string(style.GlyphHorizontal), width-2)+string(style.GlyphTopRight),
	)+style.Reset)
	for i, ln := range expanded {
		pad := width - Width(ln) - 4
		var b strings.Builder
		b.WriteString(edge)
		if opts.LineNumbers {
			pad -= numWidth + 1
			b.WriteString(style.Reset + style.Seq(style.Dim) + color)
			b.WriteString(fmt.Sprintf("%*d", numWidth, i+1))
			b.WriteString(edge)
		}
		b.WriteString(style.Reset + " " + ln + strings.Repeat(" ", max(0, pad)) + " ")
		b.WriteString(edge + style.Reset)
		out = append(out, b.String())
	}
	out = append(out, color+style.Glyphs(
		string(style.GlyphBottomLeft)+strings.Repeat(string(style.GlyphHorizontal), width-2)+string(style.GlyphBottomRight),
	)+style.Reset)

	return Block{Lines: out, Width: width, Height: len(out)}
}
