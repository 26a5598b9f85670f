package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// HTML renders the text content of an HTML document. Block elements start
// new lines, paragraphs and headings are separated by a blank line, and
// whitespace is collapsed outside <pre>.
type HTML struct{}

var skipElements = map[string]bool{
	"head": true, "script": true, "style": true, "template": true, "noscript": true,
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "section": true, "table": true, "tr": true, "ul": true,
}

var paragraphElements = map[string]bool{
	"p": true, "pre": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// Render parses src and returns its visible text.
func (HTML) Render(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var w textWriter
	w.walk(doc, false)
	return trimLines(w.b.String()), nil
}

// textWriter accumulates rendered text. Trailing spaces are held back until
// more text arrives, so ending a line never rewrites what was written.
type textWriter struct {
	b        strings.Builder
	spaces   int  // trailing spaces not yet written to b
	newlines int  // trailing newlines in b
	last     rune // last rune in b
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, pre)
		return
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
		if n.Data == "br" {
			w.write("\n")
			return
		}
	}

	breaks := 0
	switch {
	case paragraphElements[n.Data]:
		breaks = 2
	case blockElements[n.Data]:
		breaks = 1
	}

	w.lineBreaks(breaks)
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") && !w.atLineStart() {
		w.write("\t")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre || n.Data == "pre")
	}
	w.lineBreaks(breaks)
}

func (w *textWriter) text(s string, pre bool) {
	if pre {
		w.write(s)
		return
	}

	collapsed := strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	if collapsed == "" {
		if len(s) > 0 && !w.atSpace() {
			w.write(" ")
		}
		return
	}
	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) && !w.atSpace() {
		w.write(" ")
	}
	w.write(collapsed)
	if last, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(last) {
		w.write(" ")
	}
}

// write appends s, holding back its trailing spaces.
func (w *textWriter) write(s string) {
	body := strings.TrimRight(s, " ")
	if body == "" {
		w.spaces += len(s)
		return
	}

	if w.spaces > 0 {
		w.b.WriteString(strings.Repeat(" ", w.spaces))
		w.spaces = 0
		w.newlines = 0
	}
	w.b.WriteString(body)
	w.spaces = len(s) - len(body)

	if nl := len(body) - len(strings.TrimRight(body, "\n")); nl == len(body) {
		w.newlines += nl
	} else {
		w.newlines = nl
	}
	w.last, _ = utf8.DecodeLastRuneInString(body)
}

// atSpace reports whether the output is empty or ends in whitespace.
func (w *textWriter) atSpace() bool {
	return w.spaces > 0 || w.b.Len() == 0 || unicode.IsSpace(w.last)
}

func (w *textWriter) atLineStart() bool {
	return w.b.Len() == 0 || w.last == '\n'
}

// lineBreaks ends the current line so the output ends with n newlines.
// Held trailing spaces are dropped.
func (w *textWriter) lineBreaks(n int) {
	if n == 0 || (w.b.Len() == 0 && w.spaces == 0) {
		return
	}
	w.spaces = 0
	for ; w.newlines < n; w.newlines++ {
		w.b.WriteByte('\n')
	}
	w.last = '\n'
}
