package toml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMalformedInput(t *testing.T) {
	cases := []string{
		"x = ",              // missing value
		"[[",                // unterminated array-of-tables header
		"[a",                // unterminated table header
		"[]",                // empty header name
		"= 1",               // empty key path
		`s = "unterminated`, // string without ending
		"s = '''open",       // multiline literal without ending
		"a = [1, 2",         // unmatched bracket
		"t = { x = 1",       // unmatched brace
		"n = 0x",            // bare base prefix
		"n = 0o9",           // digit outside the base
		"v = @",             // no value form matches
	}
	for _, src := range cases {
		_, err := Parse(src)
		require.Error(t, err, "input %q", src)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %q", src)
		assert.ErrorIs(t, err, ErrMalformedInput, "input %q", src)
	}
}

func TestParseErrorCarriesRemainingLine(t *testing.T) {
	_, err := Parse("a = @bad rest\nb = 1\n")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "@bad rest", perr.Line)
	assert.Contains(t, perr.Error(), `"@bad rest"`)
}

func TestNoPartialDocumentOnFailure(t *testing.T) {
	root, err := Parse("a = 1\nb = @\n")
	require.Error(t, err)
	assert.Nil(t, root)
}

func TestValidDocumentHasNoError(t *testing.T) {
	root, err := Parse("a = 1\nb = 2\n")
	require.NoError(t, err)
	a, _ := Get(root, "a")
	assert.Equal(t, int64(1), MustInt(a))
	b, _ := Get(root, "b")
	assert.Equal(t, int64(2), MustInt(b))
}

func TestEmptyDocument(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "# only a comment\n"} {
		root, err := Parse(src)
		require.NoError(t, err, "input %q", src)
		assert.Equal(t, 0, root.Len(), "input %q", src)
	}
}
