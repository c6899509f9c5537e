package mapping

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Cleans rich text (HTML) before it is published as object content.
type Sanitizer interface {
	Sanitize(raw string) string
}

// Passes text through unchanged. Only for trusted content, or when sanitization already happened upstream.
type NoopSanitizer struct{}

func (NoopSanitizer) Sanitize(raw string) string {
	return raw
}

// Allow-list HTML sanitizer, keeping the small set of inline and block elements which fediverse servers render.
//
// Disallowed elements are unwrapped (their text is kept), except for script-like elements which are dropped along with their contents. Links keep only http, https and mailto targets. End tags which were never opened are dropped, and elements still open at the end are closed. Output is NFC normalized.
type HTMLSanitizer struct{}

var allowedElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.A:          true,
	atom.Span:       true,
	atom.Em:         true,
	atom.Strong:     true,
	atom.B:          true,
	atom.I:          true,
	atom.U:          true,
	atom.Del:        true,
	atom.Code:       true,
	atom.Pre:        true,
	atom.Blockquote: true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
}

var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Template: true,
	atom.Noscript: true,
}

func (HTMLSanitizer) Sanitize(raw string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	// depth inside a dropped element
	skip := 0
	// allowed elements opened and not yet closed
	var open []atom.Atom
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF, or the tokenizer gave up
			break
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if droppedElements[tok.DataAtom] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedElements[tok.DataAtom] {
				continue
			}
			selfClosing := tt == html.SelfClosingTagToken || tok.DataAtom == atom.Br
			writeStartTag(&sb, tok, selfClosing)
			if !selfClosing {
				open = append(open, tok.DataAtom)
			}
		case html.EndTagToken:
			if droppedElements[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedElements[tok.DataAtom] || tok.DataAtom == atom.Br {
				continue
			}
			i := lastIndex(open, tok.DataAtom)
			if i < 0 {
				// never opened
				continue
			}
			// also closes anything left open inside it
			for j := len(open) - 1; j >= i; j-- {
				sb.WriteString("</" + open[j].String() + ">")
			}
			open = open[:i]
		case html.TextToken:
			if skip > 0 {
				continue
			}
			sb.WriteString(html.EscapeString(tok.Data))
		}
	}
	for j := len(open) - 1; j >= 0; j-- {
		sb.WriteString("</" + open[j].String() + ">")
	}
	return strings.TrimSpace(norm.NFC.String(sb.String()))
}

func lastIndex(stack []atom.Atom, a atom.Atom) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == a {
			return i
		}
	}
	return -1
}

func writeStartTag(sb *strings.Builder, tok html.Token, selfClosing bool) {
	sb.WriteString("<" + tok.DataAtom.String())
	for _, attr := range tok.Attr {
		switch {
		case tok.DataAtom == atom.A && attr.Key == "href":
			if !safeHref(attr.Val) {
				continue
			}
		case attr.Key == "class" && (tok.DataAtom == atom.A || tok.DataAtom == atom.Span):
		case tok.DataAtom == atom.A && attr.Key == "rel":
		default:
			continue
		}
		sb.WriteString(" " + attr.Key + `="` + html.EscapeString(attr.Val) + `"`)
	}
	if selfClosing {
		sb.WriteString(" />")
		return
	}
	sb.WriteString(">")
}

func safeHref(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return true
	}
	return false
}
