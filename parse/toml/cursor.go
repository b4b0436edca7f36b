package toml

import "strings"

// =========================
// Cursor
// =========================

// matcher tests a grammar fragment anchored at the start of s and returns the
// number of bytes matched, or -1 for no match. Anchoring is what keeps the
// grammar deterministic: a matcher never scans ahead for a later occurrence.
type matcher func(s string) int

// cursor threads the position state through the whole parse. One cursor per
// Parse call, never shared.
type cursor struct {
	input string
	pos   int
}

func (c *cursor) eof() bool { return c.pos >= len(c.input) }

func (c *cursor) rest() string { return c.input[c.pos:] }

// remainingLine is the text from the current offset to the next line break,
// used as the diagnostic payload of ParseError.
func (c *cursor) remainingLine() string {
	s := c.rest()
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i]
		}
	}
	return s
}

// skip advances past any run of whitespace, line breaks and #-comments.
// Comments run to the end of their line only.
func (c *cursor) skip() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			for c.pos < len(c.input) && c.input[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

// match reports whether m matches at the current position after an implicit
// skip. Nothing beyond the skipped prefix is consumed.
func (c *cursor) match(m matcher) bool {
	c.skip()
	return m(c.rest()) >= 0
}

// consume skips, requires m to match at the current position, advances past
// the match and returns the matched text (empty for a zero-length match).
func (c *cursor) consume(m matcher) (string, error) {
	c.skip()
	n := m(c.rest())
	if n < 0 {
		return "", c.fail()
	}
	s := c.input[c.pos : c.pos+n]
	c.pos += n
	return s, nil
}

func (c *cursor) fail() error {
	return &ParseError{Pos: c.pos, Line: c.remainingLine(), Err: ErrMalformedInput}
}

func (c *cursor) failWith(err error) error {
	return &ParseError{Pos: c.pos, Line: c.remainingLine(), Err: err}
}

// =========================
// Character Classes
// =========================

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHex(ch byte) bool {
	switch {
	default:
		return false
	case '0' <= ch && ch <= '9':
	case 'a' <= ch && ch <= 'f':
	case 'A' <= ch && ch <= 'F':
	}
	return true
}

func isOctal(ch byte) bool {
	return '0' <= ch && ch <= '7'
}

func isBinary(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isBareKeyChar(ch byte) bool {
	switch {
	default:
		return false
	case 'A' <= ch && ch <= 'Z':
	case 'a' <= ch && ch <= 'z':
	case '0' <= ch && ch <= '9':
	case ch == '-' || ch == '_':
	}
	return true
}

// digitRun counts digit-or-underscore bytes starting at i. Underscore
// separators are accepted anywhere in the run; they are stripped before
// numeric conversion.
func digitRun(s string, i int) int {
	n := 0
	for i+n < len(s) && (isDigit(s[i+n]) || s[i+n] == '_') {
		n++
	}
	return n
}

func classRun(s string, i int, class func(byte) bool) int {
	n := 0
	for i+n < len(s) && (class(s[i+n]) || s[i+n] == '_') {
		n++
	}
	return n
}

func fixedDigits(s string, i, n int) bool {
	if i+n > len(s) {
		return false
	}
	for j := 0; j < n; j++ {
		if !isDigit(s[i+j]) {
			return false
		}
	}
	return true
}

func at(s string, i int, ch byte) bool {
	return i < len(s) && s[i] == ch
}

// =========================
// Token Matchers
// =========================

// lit matches a fixed token.
func lit(tok string) matcher {
	return func(s string) int {
		if strings.HasPrefix(s, tok) {
			return len(tok)
		}
		return -1
	}
}

var (
	matchEqual            = lit("=")
	matchDot              = lit(".")
	matchComma            = lit(",")
	matchArrayOpen        = lit("[")
	matchArrayClose       = lit("]")
	matchInlineOpen       = lit("{")
	matchInlineClose      = lit("}")
	matchTableHeaderOpen  = lit("[")
	matchTableHeaderClose = lit("]")
	matchArrayHeaderOpen  = lit("[[")
	matchArrayHeaderClose = lit("]]")
)

func matchBareKey(s string) int {
	i := 0
	for i < len(s) && isBareKeyChar(s[i]) {
		i++
	}
	if i == 0 {
		return -1
	}
	return i
}

// matchBasicString matches a one-line "…" run. An escaped quote does not
// terminate it; a raw line break means the string is unterminated.
func matchBasicString(s string) int {
	if len(s) < 2 || s[0] != '"' {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\n', '\r':
			return -1
		case '"':
			return i + 1
		}
	}
	return -1
}

// matchMultilineBasic matches a """…""" run lazily. A run of more than three
// closing quotes leaves the surplus (up to two) inside the content.
func matchMultilineBasic(s string) int {
	if !strings.HasPrefix(s, `"""`) {
		return -1
	}
	for i := 3; i < len(s); {
		switch s[i] {
		case '\\':
			i += 2
		case '"':
			q := 0
			for i+q < len(s) && s[i+q] == '"' {
				q++
			}
			if q >= 3 {
				return i + q
			}
			i += q
		default:
			i++
		}
	}
	return -1
}

func matchLiteralString(s string) int {
	if len(s) < 2 || s[0] != '\'' {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\n', '\r':
			return -1
		case '\'':
			return i + 1
		}
	}
	return -1
}

func matchMultilineLiteral(s string) int {
	if !strings.HasPrefix(s, `'''`) {
		return -1
	}
	for i := 3; i < len(s); {
		if s[i] == '\'' {
			q := 0
			for i+q < len(s) && s[i+q] == '\'' {
				q++
			}
			if q >= 3 {
				return i + q
			}
			i += q
			continue
		}
		i++
	}
	return -1
}

func matchBool(s string) int {
	if strings.HasPrefix(s, "true") {
		return 4
	}
	if strings.HasPrefix(s, "false") {
		return 5
	}
	return -1
}

// matchDateStart is the dispatch lookahead for date literals: four digits and
// a dash. Tried before any numeric form since both start with digits.
func matchDateStart(s string) int {
	if fixedDigits(s, 0, 4) && at(s, 4, '-') {
		return 5
	}
	return -1
}

// matchTimeStart is the dispatch lookahead for bare local times.
func matchTimeStart(s string) int {
	if fixedDigits(s, 0, 2) && at(s, 2, ':') {
		return 3
	}
	return -1
}

// timePart matches HH:MM:SS with optional fractional seconds, starting at i.
func timePart(s string, i int) int {
	if !fixedDigits(s, i, 2) || !at(s, i+2, ':') || !fixedDigits(s, i+3, 2) || !at(s, i+5, ':') || !fixedDigits(s, i+6, 2) {
		return -1
	}
	i += 8
	if at(s, i, '.') {
		n := 0
		for i+1+n < len(s) && isDigit(s[i+1+n]) {
			n++
		}
		if n > 0 {
			i += 1 + n
		}
	}
	return i
}

// matchDateTime matches YYYY-MM-DD, optionally followed by a T-or-space time
// part and an optional Z or ±HH:MM offset. The whole lexeme is kept verbatim;
// calendar decomposition is the caller's business.
func matchDateTime(s string) int {
	if !fixedDigits(s, 0, 4) || !at(s, 4, '-') || !fixedDigits(s, 5, 2) || !at(s, 7, '-') || !fixedDigits(s, 8, 2) {
		return -1
	}
	i := 10
	if i >= len(s) || (s[i] != 'T' && s[i] != ' ') {
		return i
	}
	end := timePart(s, i+1)
	if end < 0 {
		// a trailing space that does not open a time part stays outside
		return i
	}
	i = end
	switch {
	case at(s, i, 'Z'):
		i++
	case (at(s, i, '+') || at(s, i, '-')) && fixedDigits(s, i+1, 2) && at(s, i+3, ':') && fixedDigits(s, i+4, 2):
		i += 6
	}
	return i
}

func matchLocalTime(s string) int {
	return timePart(s, 0)
}

// matchFloat requires a fractional part or an exponent so that plain integers
// fall through to matchInteger.
func matchFloat(s string) int {
	i := 0
	if at(s, i, '+') || at(s, i, '-') {
		i++
	}
	n := digitRun(s, i)
	if n == 0 {
		return -1
	}
	i += n
	hasFrac := false
	if at(s, i, '.') {
		m := digitRun(s, i+1)
		if m == 0 {
			return -1
		}
		i += 1 + m
		hasFrac = true
	}
	hasExp := false
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if at(s, j, '+') || at(s, j, '-') {
			j++
		}
		if m := digitRun(s, j); m > 0 {
			i = j + m
			hasExp = true
		} else if !hasFrac {
			return -1
		}
	}
	if !hasFrac && !hasExp {
		return -1
	}
	return i
}

func matchSpecialFloat(s string) int {
	i := 0
	if at(s, 0, '+') || at(s, 0, '-') {
		i = 1
	}
	if strings.HasPrefix(s[i:], "inf") || strings.HasPrefix(s[i:], "nan") {
		return i + 3
	}
	return -1
}

func matchInteger(s string) int {
	i := 0
	if at(s, i, '+') || at(s, i, '-') {
		i++
	}
	switch {
	case strings.HasPrefix(s[i:], "0x"):
		if n := classRun(s, i+2, isHex); n > 0 {
			return i + 2 + n
		}
		return -1
	case strings.HasPrefix(s[i:], "0o"):
		if n := classRun(s, i+2, isOctal); n > 0 {
			return i + 2 + n
		}
		return -1
	case strings.HasPrefix(s[i:], "0b"):
		if n := classRun(s, i+2, isBinary); n > 0 {
			return i + 2 + n
		}
		return -1
	}
	if n := digitRun(s, i); n > 0 {
		return i + n
	}
	return -1
}
