package adhoc

import "strings"

// Separator splits the fields of one definition string.
const Separator = "|"

const escapedSeparator = `\|`

// Escape renders every literal '|' in field as `\|`.
func Escape(field string) string {
	return strings.ReplaceAll(field, Separator, escapedSeparator)
}

// Unescape reverses Escape.
func Unescape(field string) string {
	return strings.ReplaceAll(field, escapedSeparator, Separator)
}

// Split cuts s on unescaped '|'. A backslash directly followed by '|' is
// one escaped unit and stays in its field; any other backslash, including a
// trailing one, is literal. Fields are returned still escaped. The result
// always has CountFields(s) elements.
func Split(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == '|' {
				i++
			}
		case '|':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// CountFields returns the number of unescaped separators plus one.
func CountFields(s string) int {
	n := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == '|' {
				i++
			}
		case '|':
			n++
		}
	}
	return n
}

// Join escapes each field and joins them with Separator.
func Join(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, Separator)
}
