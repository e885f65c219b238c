package bundle

// Scanner modes for bodySpan. A template literal suspends brace counting
// until its closing backtick, except inside ${...} interpolations, which
// reopen a code frame with its own depth.
const (
	modeCode = iota
	modeTemplate
)

// bodySpan locates the end of a factory body by brace-depth counting.
// data[start] must be the opening brace. It returns the index just past the
// matching close brace and whether the span terminated before end-of-input.
//
// Braces inside string literals, template literals, line and block comments,
// and regular-expression literals are not counted: an embedded "}" in any of
// those contexts must not be mistaken for the body terminator.
func bodySpan(data []byte, start int) (end int, terminated bool) {
	modes := []int{modeCode}
	depth := []int{1}
	i := start + 1

	for i < len(data) {
		if modes[len(modes)-1] == modeTemplate {
			switch data[i] {
			case '\\':
				i += 2
			case '`':
				modes = modes[:len(modes)-1]
				i++
			case '$':
				if i+1 < len(data) && data[i+1] == '{' {
					modes = append(modes, modeCode)
					depth = append(depth, 1)
					i += 2
				} else {
					i++
				}
			default:
				i++
			}
			continue
		}

		c := data[i]
		switch {
		case c == '\'' || c == '"':
			i = skipString(data, i)
		case c == '`':
			modes = append(modes, modeTemplate)
			i++
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			i = skipLineComment(data, i)
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i = skipBlockComment(data, i)
		case c == '/' && regexAllowed(data, i):
			i = skipRegex(data, i)
		case c == '{':
			depth[len(depth)-1]++
			i++
		case c == '}':
			depth[len(depth)-1]--
			if depth[len(depth)-1] == 0 {
				if len(modes) == 1 {
					return i + 1, true
				}
				// End of a ${...} interpolation.
				modes = modes[:len(modes)-1]
				depth = depth[:len(depth)-1]
			}
			i++
		default:
			i++
		}
	}
	return len(data), false
}

// skipString consumes a single- or double-quoted string starting at i and
// returns the index just past its closing quote. A raw newline ends the scan:
// the source is malformed there, and eating the rest of the blob would be
// worse than stopping.
func skipString(data []byte, i int) int {
	quote := data[i]
	i++
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		case '\n':
			return i
		default:
			i++
		}
	}
	return len(data)
}

func skipLineComment(data []byte, i int) int {
	for i < len(data) && data[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(data []byte, i int) int {
	i += 2
	for i+1 < len(data) {
		if data[i] == '*' && data[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(data)
}

// skipRegex consumes a regular-expression literal starting at the slash. A
// slash inside a character class does not terminate it. Trailing flags are
// consumed with the literal.
func skipRegex(data []byte, i int) int {
	i++
	inClass := false
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				i++
				for i < len(data) && isWordByte(data[i]) {
					i++
				}
				return i
			}
		case '\n':
			// Not actually a regex; stop rather than consume further.
			return i
		}
		i++
	}
	return len(data)
}

// regexAllowed decides whether a slash at position i starts a regular
// expression or is a division operator, from the token preceding it. This is
// the standard heuristic: after a value (identifier, literal, closing
// bracket) a slash divides; after an operator, punctuation, or a keyword
// like return it opens a regex.
func regexAllowed(data []byte, i int) bool {
	j := i - 1
	for j >= 0 && isSpaceByte(data[j]) {
		j--
	}
	if j < 0 {
		return true
	}
	c := data[j]
	if isWordByte(c) {
		k := j
		for k >= 0 && isWordByte(data[k]) {
			k--
		}
		switch string(data[k+1 : j+1]) {
		case "return", "case", "typeof", "instanceof", "in", "of", "new",
			"do", "else", "void", "delete", "yield", "await", "throw":
			return true
		}
		return false
	}
	switch c {
	case ')', ']', '}', '"', '\'', '`':
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
