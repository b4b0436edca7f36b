package toml

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside ParseError. errors.Is against these tells a
// malformed document apart from a numerically out-of-range literal.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrNumberRange    = errors.New("number out of range")
)

// ParseError is the single failure type produced by Parse. Line holds the
// remaining text from the failure offset to the next line break, which is
// usually enough to spot the offending construct.
type ParseError struct {
	Pos  int
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml: offset %d near %q: %s", e.Pos, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
