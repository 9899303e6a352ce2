package filter

import "strings"

// stripExtended rewrites an extended-mode pattern for RE2, which has no
// whitespace-ignoring flag. Unescaped whitespace is dropped everywhere.
// Outside a character class, '#' starts a comment that runs to end of line.
// Escapes are copied verbatim, so `\ ` and `\#` stay literal.
func stripExtended(p string) string {
	var b strings.Builder
	b.Grow(len(p))

	inClass := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(p) {
				i++
				b.WriteByte(p[i])
			}
		case isSpace(c):
		case c == '#' && !inClass:
			for i+1 < len(p) && p[i+1] != '\n' {
				i++
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			// A ']' directly after '[' or '[^' is a literal member.
			if i+1 < len(p) && p[i+1] == '^' {
				i++
				b.WriteByte(p[i])
			}
			if i+1 < len(p) && p[i+1] == ']' {
				i++
				b.WriteByte(p[i])
			}
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
