package renderer

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type document struct {
	title string
	lines []string
	links []string
}

type textBuilder struct {
	base  *url.URL
	doc   document
	line  strings.Builder
	seen  map[string]struct{}
	pre   int
	blank bool
}

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Main: true,
	atom.Aside: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Table: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Form: true, atom.Figure: true, atom.Dl: true, atom.Dt: true, atom.Dd: true, atom.Hr: true,
}

var headingLevel = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// renderHTML flattens an HTML document into text lines and collects its
// outgoing http(s) links, resolved against base with fragments dropped.
func renderHTML(base *url.URL, r io.Reader) (document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return document{}, fmt.Errorf("parse html: %w", err)
	}
	b := &textBuilder{base: base, seen: map[string]struct{}{}}
	b.walk(root)
	b.flush()
	lines := b.doc.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	b.doc.lines = lines
	return b.doc, nil
}

func (b *textBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Title {
			if b.doc.title == "" {
				b.doc.title = collapse(textOf(n))
			}
			return
		}
		if n.DataAtom == atom.Head {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Title {
					b.walk(c)
				}
			}
			return
		}
		b.open(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.walk(c)
		}
		b.close(n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *textBuilder) open(n *html.Node) {
	switch {
	case n.DataAtom == atom.Br:
		b.flush()
	case n.DataAtom == atom.Pre:
		b.paragraph()
		b.pre++
	case headingLevel[n.DataAtom] > 0:
		b.paragraph()
		b.line.WriteString(strings.Repeat("#", headingLevel[n.DataAtom]) + " ")
	case n.DataAtom == atom.Li:
		b.flush()
		b.line.WriteString("• ")
	case n.DataAtom == atom.Hr:
		b.flush()
		b.emit("────")
	case n.DataAtom == atom.A:
		b.link(n)
	case blocks[n.DataAtom]:
		b.flush()
	}
}

func (b *textBuilder) close(n *html.Node) {
	switch {
	case n.DataAtom == atom.Pre:
		b.flush()
		b.pre--
		b.paragraph()
	case headingLevel[n.DataAtom] > 0, n.DataAtom == atom.P:
		b.paragraph()
	case blocks[n.DataAtom]:
		b.flush()
	}
}

func (b *textBuilder) text(s string) {
	if b.pre > 0 {
		parts := strings.Split(s, "\n")
		for i, p := range parts {
			if i > 0 {
				b.flush()
			}
			b.line.WriteString(p)
		}
		return
	}
	c := collapse(s)
	if c == "" {
		b.space()
		return
	}
	if startsWithSpace(s) {
		b.space()
	}
	b.line.WriteString(c)
	if endsWithSpace(s) {
		b.space()
	}
}

func (b *textBuilder) space() {
	cur := b.line.String()
	if cur == "" || strings.HasSuffix(cur, " ") {
		return
	}
	b.line.WriteByte(' ')
}

func (b *textBuilder) link(n *html.Node) {
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, "href") {
			continue
		}
		href := strings.TrimSpace(a.Val)
		if href == "" {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := b.base.ResolveReference(u)
		switch strings.ToLower(resolved.Scheme) {
		case "http", "https":
		default:
			return
		}
		resolved.Fragment = ""
		s := resolved.String()
		if _, ok := b.seen[s]; ok {
			return
		}
		b.seen[s] = struct{}{}
		b.doc.links = append(b.doc.links, s)
		return
	}
}

// flush ends the current line if it has content.
func (b *textBuilder) flush() {
	line := strings.TrimRight(b.line.String(), " ")
	b.line.Reset()
	if b.pre == 0 {
		line = strings.TrimLeft(line, " ")
	}
	if line == "" {
		return
	}
	b.emit(line)
}

// paragraph ends the current line and leaves one blank line after it.
func (b *textBuilder) paragraph() {
	b.flush()
	if len(b.doc.lines) > 0 && !b.blank {
		b.doc.lines = append(b.doc.lines, "")
		b.blank = true
	}
}

func (b *textBuilder) emit(line string) {
	b.doc.lines = append(b.doc.lines, line)
	b.blank = false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
