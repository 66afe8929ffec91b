package toc

import (
	"strconv"
	"strings"
	"unicode"
)

// Heading is one heading of a rendered document, in document order.
type Heading struct {
	Level int    // 1 through 6
	Text  string // visible text
	ID    string // anchor id; empty until assigned
}

// Slug derives an anchor candidate from heading text: lower-cased and trimmed,
// runes other than letters, digits, whitespace and '-' dropped, then each run
// of whitespace replaced by a single hyphen.
func Slug(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var b strings.Builder
	inSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			if inSpace {
				b.WriteByte('-')
				inSpace = false
			}
			b.WriteRune(r)
		}
	}
	if inSpace {
		b.WriteByte('-')
	}
	return b.String()
}

// FallbackID is the anchor used when a heading's slug is empty or taken.
func FallbackID(index int) string {
	return "heading-" + strconv.Itoa(index)
}

// AssignAnchors gives every heading without an ID a unique anchor. IDs already
// present on headings are kept and, together with reserved, count as in use.
// Earlier headings claim their slug first; a later heading whose slug is empty
// or already in use falls back to FallbackID of its position.
func AssignAnchors(headings []Heading, reserved []string) {
	used := make(map[string]bool, len(headings)+len(reserved))
	for _, id := range reserved {
		if id != "" {
			used[id] = true
		}
	}
	for _, h := range headings {
		if h.ID != "" {
			used[h.ID] = true
		}
	}

	for i := range headings {
		h := &headings[i]
		if h.ID != "" {
			continue
		}
		id := Slug(h.Text)
		if id == "" || used[id] {
			id = FallbackID(i)
		}
		h.ID = id
		used[id] = true
	}
}
