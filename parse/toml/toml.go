package toml

// Package toml implements a production-grade TOML decoder with an explicit
// AST, deterministic semantics, and safe post-parse operations.
//
// Scope:
// - TOML v1.0.0 core features, slightly permissive where the document is
//   unambiguous (trailing commas, mixed-kind arrays, underscore grouping)
// - Explicit AST (Table / Array / Value) with insertion order preserved
// - Safe dotted-key handling
// - Table extension semantics for repeated headers and arrays of tables
// - Deterministic errors
//
// Non-goals (by design):
// - Encoding back to TOML text
// - Comment preservation
// - Streaming mutation
//
// Date and time literals are kept as their raw lexemes; decomposing them into
// calendar fields is the caller's responsibility.
//
// This implementation is suitable for production use as a configuration
// ingestion layer.

import (
	"io"
)

// =========================
// AST Definitions
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueString   ValueKind
	ValueInt      ValueKind
	ValueFloat    ValueKind
	ValueBool     ValueKind
	ValueDatetime ValueKind
	ValueTable    ValueKind
	ValueArray    ValueKind
}{
	ValueString:   "string",
	ValueInt:      "int",
	ValueFloat:    "float",
	ValueBool:     "bool",
	ValueDatetime: "datetime",
	ValueTable:    "table",
	ValueArray:    "array",
}

type Node interface {
	Kind() ValueKind
	Value() any
}

// -------- Table --------

// Table is an ordered mapping from keys to nodes. Iteration through Keys
// yields keys in first-insertion order.
type Table struct {
	keys  []string
	items map[string]Node
}

func NewTable() *Table {
	return &Table{items: make(map[string]Node)}
}

func (*Table) Kind() ValueKind { return tomlValueKinds.ValueTable }

func (*Table) Value() any { return nil }

// Put binds key to n. A first insertion appends to the key order; an
// overwrite keeps the original position.
func (t *Table) Put(key string, n Node) {
	if _, ok := t.items[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.items[key] = n
}

func (t *Table) Get(key string) (Node, bool) {
	n, ok := t.items[key]
	return n, ok
}

// Keys returns the table's keys in insertion order. The returned slice is
// owned by the table.
func (t *Table) Keys() []string { return t.keys }

func (t *Table) Len() int { return len(t.keys) }

// -------- Array --------

type Array struct {
	Elems []Node
}

func (v *Array) Kind() ValueKind { return tomlValueKinds.ValueArray }

func (v *Array) Value() any { return v.Elems }

// -------- Value --------

type Value struct {
	Type ValueKind
	V    any
}

func (v *Value) Kind() ValueKind { return v.Type }

func (v *Value) Value() any { return v.V }

// =========================
// Public API
// =========================

// Parse decodes a complete TOML document and returns the root Table. Every
// call owns an independent cursor and document, so concurrent calls on
// different inputs need no synchronization.
func Parse(input string) (*Table, error) {
	c := &cursor{input: input}
	root := NewTable()
	if err := parseDocument(c, root); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseReader drains r and decodes its contents. A read failure surfaces as
// the reader's own error, distinct from *ParseError.
func ParseReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// =========================
// Top-Level Driver
// =========================

// parseDocument iterates statements at document scope: key/value pairs,
// [table] headers and [[array-of-table]] headers.
func parseDocument(c *cursor, root *Table) error {
	for {
		c.skip()
		if c.eof() {
			return nil
		}
		switch {
		case c.match(matchArrayHeaderOpen):
			c.consume(matchArrayHeaderOpen)
			name, err := parseKeyPath(c, matchArrayHeaderClose)
			if err != nil {
				return err
			}
			if _, err := c.consume(matchArrayHeaderClose); err != nil {
				return err
			}
			body, err := parseTableBody(c)
			if err != nil {
				return err
			}
			arrayPut(root, name, body)
		case c.match(matchTableHeaderOpen):
			c.consume(matchTableHeaderOpen)
			name, err := parseKeyPath(c, matchTableHeaderClose)
			if err != nil {
				return err
			}
			if _, err := c.consume(matchTableHeaderClose); err != nil {
				return err
			}
			body, err := parseTableBody(c)
			if err != nil {
				return err
			}
			dictPut(root, name, body)
		default:
			path, err := parseKeyPath(c, matchEqual)
			if err != nil {
				return err
			}
			if _, err := c.consume(matchEqual); err != nil {
				return err
			}
			v, err := parseValue(c)
			if err != nil {
				return err
			}
			dictPut(root, path, v)
		}
	}
}

// parseTableBody collects the flat key/value lines following a table header
// into a fresh table, stopping before the next header or end of input.
func parseTableBody(c *cursor) (*Table, error) {
	t := NewTable()
	for {
		c.skip()
		if c.eof() || c.match(matchTableHeaderOpen) {
			return t, nil
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
	}
}

// =========================
// Document Assembly
// =========================

// descend resolves the intermediate keys of a path. Existing tables are
// entered, arrays are entered through their last element (so nested keys land
// in the most recently opened array-of-tables entry), and anything else is
// replaced by a fresh table.
func descend(t *Table, keys []string) *Table {
	for _, key := range keys {
		if n, ok := t.Get(key); ok {
			switch n := n.(type) {
			case *Table:
				t = n
				continue
			case *Array:
				if len(n.Elems) > 0 {
					if last, ok := n.Elems[len(n.Elems)-1].(*Table); ok {
						t = last
						continue
					}
				}
			}
		}
		next := NewTable()
		t.Put(key, next)
		t = next
	}
	return t
}

// dictPut writes v at path. When both the existing and the incoming value at
// the final key are tables, the incoming entries merge into the existing
// table; this is how a later [table] header extends fields added earlier
// under the same path. Any other collision rebinds the key.
func dictPut(root *Table, path []string, v Node) {
	t := descend(root, path[:len(path)-1])
	last := path[len(path)-1]
	if old, ok := t.Get(last); ok {
		if ot, ok := old.(*Table); ok {
			if nt, ok := v.(*Table); ok {
				for _, k := range nt.Keys() {
					nv, _ := nt.Get(k)
					ot.Put(k, nv)
				}
				return
			}
		}
	}
	t.Put(last, v)
}

// arrayPut appends v to the array at path, creating the array if the slot is
// absent or holds something else.
func arrayPut(root *Table, path []string, v Node) {
	t := descend(root, path[:len(path)-1])
	last := path[len(path)-1]
	n, _ := t.Get(last)
	arr, ok := n.(*Array)
	if !ok {
		arr = &Array{Elems: make([]Node, 0, 1)}
		t.Put(last, arr)
	}
	arr.Elems = append(arr.Elems, v)
}

// =========================
// Safe Access Helpers
// =========================

func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Get(p)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func GetUntyped(root *Table, path ...string) (any, bool) {
	n, ok := Get(root, path...)
	if !ok {
		return nil, false
	}
	return ToUntyped(n), true
}

func ToUntyped(n Node) any {
	switch v := n.(type) {
	case *Value:
		return v.V
	case *Array:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = ToUntyped(v.Elems[i])
		}
		return out
	case *Table:
		m := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			m[k] = ToUntyped(child)
		}
		return m
	default:
		return nil
	}
}

func MustString(n Node) string {
	v := n.(*Value)
	return v.V.(string)
}

func MustInt(n Node) int64 {
	v := n.(*Value)
	return v.V.(int64)
}
