package engine

import "strings"

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocessSource rewrites building scripts into plain zygomys:
//
//   - :name becomes the string literal "__kw_name", so keywords need no
//     global symbols
//   - ident-ident becomes ident_ident, since zygomys reads a hyphen as minus
//   - ; and ;; comments become // comments
//
// String literals (double-quoted and backtick) pass through untouched, as
// does the := operator.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	n := len(source)

	for i := 0; i < n; {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			j := skipLiteral(source, i)
			out.WriteString(source[i:j])
			i = j

		case c == ';':
			j := i
			for j < n && source[j] == ';' {
				j++
			}
			end := strings.IndexByte(source[j:], '\n')
			if end < 0 {
				end = n - j
			}
			out.WriteString("//")
			out.WriteString(source[j : j+end])
			i = j + end

		case c == ':' && i+1 < n && source[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < n && isLetter(source[i+1]):
			j := i + 1
			for j < n && isKWChar(source[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(source[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < n && isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipLiteral returns the index just past the string literal starting at i.
// Backslash escapes apply inside double quotes only.
func skipLiteral(s string, i int) int {
	quote := s[i]
	j := i + 1
	for j < len(s) && s[j] != quote {
		if quote == '"' && s[j] == '\\' {
			j++
		}
		j++
	}
	if j < len(s) {
		j++
	}
	if j > len(s) {
		j = len(s)
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
