package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var charsetPattern = regexp.MustCompile("\x1b\\(.")

const tabWidth = 4

// Width is the number of terminal columns line occupies once drawn. Tabs
// count as four spaces and escape sequences count as nothing.
func Width(line string) int {
	return runewidth.StringWidth(Strip(line))
}

// Strip expands tabs and removes character-set switches and every other
// escape sequence, graphic rendition included.
func Strip(line string) string {
	line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
	line = charsetPattern.ReplaceAllString(line, "")
	return ansi.Strip(line)
}

// MaxWidth is the widest line in lines.
func MaxWidth(lines []string) int {
	w := 0
	for _, ln := range lines {
		w = max(w, Width(ln))
	}
	return w
}

// center pads s with spaces to width columns, extra space going right.
func center(s string, width int) string {
	pad := width - Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
