package toml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorSkip(t *testing.T) {
	c := &cursor{input: "  \t# comment\n\r\n  key"}
	c.skip()
	assert.Equal(t, "key", c.rest())

	c = &cursor{input: "# runs to end of line only\nnext"}
	c.skip()
	assert.Equal(t, "next", c.rest())

	c = &cursor{input: "   "}
	c.skip()
	assert.True(t, c.eof())
}

func TestCursorMatchDoesNotConsume(t *testing.T) {
	c := &cursor{input: "  abc"}
	assert.True(t, c.match(matchBareKey))
	// skip is committed, the match itself is not
	assert.Equal(t, "abc", c.rest())
	assert.True(t, c.match(matchBareKey))
}

func TestCursorConsume(t *testing.T) {
	c := &cursor{input: " foo = 1"}
	s, err := c.consume(matchBareKey)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
	s, err = c.consume(matchEqual)
	require.NoError(t, err)
	assert.Equal(t, "=", s)
	s, err = c.consume(matchInteger)
	require.NoError(t, err)
	assert.Equal(t, "1", s)
	c.skip()
	assert.True(t, c.eof())
}

func TestCursorConsumeFailure(t *testing.T) {
	c := &cursor{input: "?rest of line\nnext"}
	_, err := c.consume(matchBareKey)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "?rest of line", perr.Line)
	assert.Equal(t, 0, perr.Pos)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestMatchingIsAnchored(t *testing.T) {
	// a matcher must match at the current offset, never scan ahead
	c := &cursor{input: "x ="}
	assert.False(t, c.match(matchEqual))
	assert.True(t, c.match(matchBareKey))
}

func TestStringMatchers(t *testing.T) {
	tests := []struct {
		m    matcher
		in   string
		want int
	}{
		{matchBasicString, `"abc" rest`, 5},
		{matchBasicString, `"a\"b"`, 6},
		{matchBasicString, `""`, 2},
		{matchBasicString, `"unterminated`, -1},
		{matchBasicString, "\"no\nnewlines\"", -1},
		{matchMultilineBasic, `"""abc"""`, 9},
		{matchMultilineBasic, "\"\"\"a\nb\"\"\"", 9},
		{matchMultilineBasic, `""""quoted""""`, 14},
		{matchMultilineBasic, `"""open`, -1},
		{matchLiteralString, `'abc'`, 5},
		{matchLiteralString, `'a\b'`, 5},
		{matchLiteralString, `'open`, -1},
		{matchMultilineLiteral, `'''a'b'''`, 9},
		{matchMultilineLiteral, `'''open`, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m(tt.in), "input %q", tt.in)
	}
}

func TestNumericMatchers(t *testing.T) {
	tests := []struct {
		m    matcher
		in   string
		want int
	}{
		{matchInteger, "123", 3},
		{matchInteger, "+1_000", 6},
		{matchInteger, "-17", 3},
		{matchInteger, "0xDEAD_BEEF", 11},
		{matchInteger, "0o755", 5},
		{matchInteger, "0b1010", 6},
		{matchInteger, "0x", -1},
		{matchInteger, "abc", -1},
		{matchFloat, "3.14", 4},
		{matchFloat, "-0.01", 5},
		{matchFloat, "1e6", 3},
		{matchFloat, "6.626e-34", 9},
		{matchFloat, "5", -1}, // no fraction and no exponent
		{matchFloat, "1.", -1},
		{matchSpecialFloat, "inf", 3},
		{matchSpecialFloat, "-inf", 4},
		{matchSpecialFloat, "nan", 3},
		{matchSpecialFloat, "info", 3}, // matcher stops after the keyword
		{matchSpecialFloat, "x", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m(tt.in), "input %q", tt.in)
	}
}

func TestDateTimeMatchers(t *testing.T) {
	tests := []struct {
		m    matcher
		in   string
		want int
	}{
		{matchDateTime, "1979-05-27", 10},
		{matchDateTime, "1979-05-27T07:32:00", 19},
		{matchDateTime, "1979-05-27 07:32:00", 19},
		{matchDateTime, "1979-05-27T07:32:00.999", 23},
		{matchDateTime, "1979-05-27T07:32:00Z", 20},
		{matchDateTime, "1979-05-27T00:32:00-07:00", 25},
		{matchDateTime, "1979-05-27 and text", 10}, // bare date, space stays outside
		{matchDateTime, "1979:05-27", -1},
		{matchLocalTime, "07:32:00", 8},
		{matchLocalTime, "07:32:00.5", 10},
		{matchLocalTime, "07:32", -1},
		{matchDateStart, "1979-", 5},
		{matchDateStart, "197-", -1},
		{matchTimeStart, "07:", 3},
		{matchTimeStart, "7:", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m(tt.in), "input %q", tt.in)
	}
}

func TestBareKeyMatcher(t *testing.T) {
	assert.Equal(t, 3, matchBareKey("abc"))
	assert.Equal(t, 7, matchBareKey("a-b_c12="))
	assert.Equal(t, -1, matchBareKey("=x"))
	assert.Equal(t, -1, matchBareKey(""))
}
