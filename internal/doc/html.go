package doc

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLText returns the visible text of an HTML fragment. Comments are
// dropped, which lets decks carry speaker notes.
func HTMLText(raw string) string {
	return htmlText(raw)
}

func htmlText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}
