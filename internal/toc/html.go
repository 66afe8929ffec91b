package toc

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholder marks where the outline is inserted into rendered markup.
const Placeholder = "[TOC]"

// HTML renders the outline as a nested list inside a nav element. Collapsed
// items carry the hidden attribute until the outline is expanded. A nil
// outline renders as the empty string.
func (o *Outline) HTML() string {
	if o == nil || len(o.Roots) == 0 {
		return ""
	}

	class := "toc"
	if o.Collapsible {
		class += " toc-collapsible"
		if o.Expanded {
			class += " toc-expanded"
		}
	}
	nav := element(atom.Nav, "class", class)
	nav.AppendChild(o.list(o.Roots))

	if o.Collapsible {
		label := "Show all (" + strconv.Itoa(o.Count) + ")"
		if o.Expanded {
			label = "Show less"
		}
		btn := element(atom.Button,
			"type", "button",
			"class", "toc-toggle",
			"aria-expanded", strconv.FormatBool(o.Expanded),
		)
		btn.AppendChild(&html.Node{Type: html.TextNode, Data: label})
		nav.AppendChild(btn)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, nav); err != nil {
		return ""
	}
	return buf.String()
}

func (o *Outline) list(nodes []*Node) *html.Node {
	ul := element(atom.Ul, "class", "toc-list")
	for _, n := range nodes {
		class := "toc-item toc-level-" + strconv.Itoa(n.Level)
		if n.Collapsed {
			class += " toc-collapsed"
		}
		li := element(atom.Li, "class", class)
		if o.Hidden(n) {
			li.Attr = append(li.Attr, html.Attribute{Key: "hidden"})
		}

		a := element(atom.A, "href", "#"+n.ID)
		a.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		li.AppendChild(a)

		if len(n.Children) > 0 {
			li.AppendChild(o.list(n.Children))
		}
		ul.AppendChild(li)
	}
	return ul
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// HasPlaceholder reports whether markup asks for an outline. Tokens inside
// code, pre and other literal elements do not count.
func HasPlaceholder(markup string) bool {
	return placeholderIndex(markup) >= 0
}

// Substitute replaces the first Placeholder in markup with outline. When the
// token is the sole content of a paragraph the whole paragraph is replaced.
// Markup without the token is returned unchanged.
func Substitute(markup, outline string) string {
	i := placeholderIndex(markup)
	if i < 0 {
		return markup
	}
	const pOpen, pClose = "<p>", "</p>"
	if i >= len(pOpen) && markup[i-len(pOpen):i] == pOpen &&
		strings.HasPrefix(markup[i+len(Placeholder):], pClose) {
		return markup[:i-len(pOpen)] + outline + markup[i+len(Placeholder)+len(pClose):]
	}
	return markup[:i] + outline + markup[i+len(Placeholder):]
}

// placeholderIndex returns the byte offset of the first Placeholder in a
// text run outside literal elements, or -1. Token raw lengths add up to the
// input, so offsets map straight back into markup.
func placeholderIndex(markup string) int {
	z := html.NewTokenizer(strings.NewReader(markup))
	offset, literal := 0, 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return -1
		}
		raw := z.Raw()
		size := len(raw)
		switch tt {
		case html.TextToken:
			if literal == 0 {
				if i := bytes.Index(raw, []byte(Placeholder)); i >= 0 {
					return offset + i
				}
			}
		case html.StartTagToken:
			if isLiteral(z) {
				literal++
			}
		case html.EndTagToken:
			if isLiteral(z) && literal > 0 {
				literal--
			}
		}
		offset += size
	}
}

func isLiteral(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Code, atom.Pre, atom.Kbd, atom.Samp, atom.Script, atom.Style, atom.Textarea:
		return true
	}
	return false
}
