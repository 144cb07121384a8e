package render

import (
	"strings"
)

// Block is a laid-out run of styled lines.
type Block struct {
	Lines  []string
	Width  int
	Height int
}

// NewBlock splits text on line boundaries and measures it.
func NewBlock(text string) Block {
	lines := splitLines(text)
	return Block{Lines: lines, Width: MaxWidth(lines), Height: len(lines)}
}

func (b Block) String() string {
	return strings.Join(b.Lines, "\n")
}

// splitLines splits on \n, \r\n and \r without producing a trailing empty
// line for a final terminator.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Size is a viewport extent in cells.
type Size struct {
	Width  int
	Height int
}

// Origin is where a block should be drawn inside a viewport. Y may be
// negative when scrolled.
type Origin struct {
	X int
	Y int
}

// Place centres b inside viewport, shifted up by scroll rows.
func Place(b Block, viewport Size, scroll int) Origin {
	return Origin{
		X: max(0, (viewport.Width-b.Width)/2),
		Y: max(0, (viewport.Height-b.Height)/2) - scroll,
	}
}

// MaxScroll is the largest scroll offset allowed for a block of height rows.
func MaxScroll(height int, viewport Size) int {
	return max(0, height-viewport.Height-1)
}
