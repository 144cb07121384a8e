// Package highlight turns source text into terminal-escaped text.
package highlight

import (
	"bytes"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const DefaultStyle = "native"

// Highlighter formats code with a fixed chroma style using 256-colour
// escapes.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter

	mu      sync.Mutex
	lexers  map[string]chroma.Lexer
	missing map[string]bool
}

// New returns a Highlighter for the named chroma style. Unknown styles fall
// back to chroma's default.
func New(styleName string) *Highlighter {
	if strings.TrimSpace(styleName) == "" {
		styleName = DefaultStyle
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: formatters.Get("terminal256"),
		lexers:    map[string]chroma.Lexer{},
		missing:   map[string]bool{},
	}
}

// Highlight formats code for the language tag lang. ok is false when the tag
// is not recognised, in which case code is returned unchanged.
func (h *Highlighter) Highlight(code, lang string) (string, bool) {
	lexer := h.lexer(lang)
	if lexer == nil {
		return code, false
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, false
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return code, false
	}
	return buf.String(), true
}

func (h *Highlighter) lexer(lang string) chroma.Lexer {
	key := strings.ToLower(strings.TrimSpace(lang))
	if key == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.lexers[key]; ok {
		return l
	}
	if h.missing[key] {
		return nil
	}
	l := lexers.Get(key)
	if l == nil {
		h.missing[key] = true
		return nil
	}
	l = chroma.Coalesce(l)
	h.lexers[key] = l
	return l
}
