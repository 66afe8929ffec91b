package frontmatter

import (
	"strings"
)

// Delimiter opens and closes a metadata block.
const Delimiter = "---"

// Metadata holds the key/value pairs of a metadata block.
type Metadata map[string]string

// quotePairs lists the quote styles stripped from values.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'},
	{'‘', '’'},
}

// Parse splits raw document text into its leading metadata block and the
// remaining body. Text without a well-formed block at the very start is
// returned unchanged with empty metadata.
func Parse(raw string) (Metadata, string) {
	meta := Metadata{}

	first, rest, ok := cutLine(raw)
	if !ok || !isDelimiter(first) {
		return meta, raw
	}

	var lines []string
	closed := false
	for {
		line, next, more := cutLine(rest)
		if isDelimiter(line) {
			rest = next
			closed = true
			break
		}
		if !more {
			break
		}
		lines = append(lines, line)
		rest = next
	}
	if !closed {
		return meta, raw
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = unquote(strings.TrimSpace(value))
	}

	return meta, rest
}

// cutLine returns the first line of s (without its terminator) and the text
// after it. more reports whether a line terminator was found.
func cutLine(s string) (line, rest string, more bool) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}

// unquote strips exactly one layer of matching quotes.
func unquote(v string) string {
	r := []rune(v)
	if len(r) < 2 {
		return v
	}
	for _, q := range quotePairs {
		if r[0] == q[0] && r[len(r)-1] == q[1] {
			return string(r[1 : len(r)-1])
		}
	}
	return v
}
