package toml

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// =========================
// Value Dispatch
// =========================

// parseValue decides the value kind by lookahead. The order is load-bearing:
// date and time come before the numeric forms because all three start with
// digits, and float comes before integer because both start with an optional
// sign and digits.
func parseValue(c *cursor) (Node, error) {
	switch {
	case c.match(matchMultilineBasic):
		raw, err := c.consume(matchMultilineBasic)
		if err != nil {
			return nil, err
		}
		content := trimLeadingNewline(raw[3 : len(raw)-3])
		return &Value{Type: tomlValueKinds.ValueString, V: decodeEscapes(foldLineContinuations(content))}, nil
	case c.match(matchBasicString):
		raw, err := c.consume(matchBasicString)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueString, V: decodeEscapes(raw[1 : len(raw)-1])}, nil
	case c.match(matchMultilineLiteral):
		raw, err := c.consume(matchMultilineLiteral)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueString, V: trimLeadingNewline(raw[3 : len(raw)-3])}, nil
	case c.match(matchLiteralString):
		raw, err := c.consume(matchLiteralString)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueString, V: raw[1 : len(raw)-1]}, nil
	case c.match(matchArrayOpen):
		return parseArray(c)
	case c.match(matchInlineOpen):
		return parseInlineTable(c)
	case c.match(matchBool):
		raw, err := c.consume(matchBool)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueBool, V: raw == "true"}, nil
	case c.match(matchDateStart):
		raw, err := c.consume(matchDateTime)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueDatetime, V: raw}, nil
	case c.match(matchTimeStart):
		raw, err := c.consume(matchLocalTime)
		if err != nil {
			return nil, err
		}
		return &Value{Type: tomlValueKinds.ValueDatetime, V: raw}, nil
	case c.match(matchFloat):
		raw, err := c.consume(matchFloat)
		if err != nil {
			return nil, err
		}
		return decodeFloat(c, raw)
	case c.match(matchSpecialFloat):
		raw, err := c.consume(matchSpecialFloat)
		if err != nil {
			return nil, err
		}
		return decodeSpecialFloat(raw), nil
	default:
		raw, err := c.consume(matchInteger)
		if err != nil {
			return nil, err
		}
		return decodeInteger(c, raw)
	}
}

// =========================
// Escape Decoding
// =========================

// trimLeadingNewline drops one line break immediately following the opening
// delimiter of a multiline string.
func trimLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	if strings.HasPrefix(s, "\n") {
		return s[1:]
	}
	return s
}

func isLineSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// foldLineContinuations deletes every backslash that is immediately followed
// by whitespace or line breaks, together with the whole whitespace run.
// Escaped pairs are copied whole so a \\ can never be split by the fold.
func foldLineContinuations(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if isLineSpace(s[i+1]) {
				j := i + 1
				for j < len(s) && isLineSpace(s[j]) {
					j++
				}
				i = j - 1
				continue
			}
			b.WriteByte(s[i])
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// decodeEscapes substitutes the basic-string escape sequences. Unrecognized
// escapes pass through verbatim rather than erroring.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		case '/':
			b.WriteByte('/')
		case '\\':
			b.WriteByte('\\')
		case 'u':
			if r, ok := hexRune(s, i+1, 4); ok {
				b.WriteRune(r)
				i += 4
			} else {
				b.WriteString(`\u`)
			}
		case 'U':
			if r, ok := hexRune(s, i+1, 8); ok {
				b.WriteRune(r)
				i += 8
			} else {
				b.WriteString(`\U`)
			}
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexRune(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	for j := 0; j < n; j++ {
		if !isHex(s[i+j]) {
			return 0, false
		}
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

// =========================
// Numeric Decoding
// =========================

func decodeInteger(c *cursor, raw string) (Node, error) {
	s := strings.ReplaceAll(raw, "_", "")
	sign := ""
	switch {
	case strings.HasPrefix(s, "-"):
		sign = "-"
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}
	i, err := strconv.ParseInt(sign+s, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, c.failWith(ErrNumberRange)
		}
		return nil, c.fail()
	}
	return &Value{Type: tomlValueKinds.ValueInt, V: i}, nil
}

func decodeFloat(c *cursor, raw string) (Node, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, c.failWith(ErrNumberRange)
		}
		return nil, c.fail()
	}
	return &Value{Type: tomlValueKinds.ValueFloat, V: f}, nil
}

func decodeSpecialFloat(raw string) Node {
	f := math.NaN()
	switch strings.TrimLeft(raw, "+-") {
	case "inf":
		f = math.Inf(+1)
		if raw[0] == '-' {
			f = math.Inf(-1)
		}
	}
	return &Value{Type: tomlValueKinds.ValueFloat, V: f}
}

// =========================
// Composite Values
// =========================

// parseArray consumes a [ … ] literal. Trailing commas are permitted and
// elements may be of mixed kinds.
func parseArray(c *cursor) (Node, error) {
	if _, err := c.consume(matchArrayOpen); err != nil {
		return nil, err
	}
	arr := &Array{Elems: make([]Node, 0)}
	for !c.match(matchArrayClose) {
		if c.eof() {
			return nil, c.fail()
		}
		v, err := parseValue(c)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
		if c.match(matchComma) {
			c.consume(matchComma)
		}
	}
	c.consume(matchArrayClose)
	return arr, nil
}

// parseInlineTable consumes a { key = value, … } literal into a fresh table,
// assembling each pair through dictPut so dotted keys nest.
func parseInlineTable(c *cursor) (Node, error) {
	if _, err := c.consume(matchInlineOpen); err != nil {
		return nil, err
	}
	t := NewTable()
	for !c.match(matchInlineClose) {
		if c.eof() {
			return nil, c.fail()
		}
		path, err := parseKeyPath(c, matchEqual)
		if err != nil {
			return nil, err
		}
		if _, err := c.consume(matchEqual); err != nil {
			return nil, err
		}
		v, err := parseValue(c)
		if err != nil {
			return nil, err
		}
		dictPut(t, path, v)
		if c.match(matchComma) {
			c.consume(matchComma)
		}
	}
	c.consume(matchInlineClose)
	return t, nil
}

// =========================
// Key Paths
// =========================

// parseKeyPath reads a dotted sequence of bare or quoted keys until the
// caller-supplied terminator matches or input ends. A path with zero keys is
// a parse error.
func parseKeyPath(c *cursor, term matcher) ([]string, error) {
	var path []string
	for {
		c.skip()
		if c.eof() || c.match(term) {
			break
		}
		var key string
		switch {
		case c.match(matchBasicString):
			raw, err := c.consume(matchBasicString)
			if err != nil {
				return nil, err
			}
			key = decodeEscapes(raw[1 : len(raw)-1])
		case c.match(matchLiteralString):
			raw, err := c.consume(matchLiteralString)
			if err != nil {
				return nil, err
			}
			key = raw[1 : len(raw)-1]
		default:
			raw, err := c.consume(matchBareKey)
			if err != nil {
				return nil, err
			}
			key = raw
		}
		path = append(path, key)
		if c.match(matchDot) {
			c.consume(matchDot)
		}
	}
	if len(path) == 0 {
		return nil, c.fail()
	}
	return path, nil
}
