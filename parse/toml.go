package parse

// Package parse holds the thin ingestion layer between storage and the
// decoders. The TOML core itself never touches the filesystem; this layer
// reads bytes, decodes them as UTF-8 text, and hands the text over.

import (
	"github.com/dzjyyds666/tq/parse/toml"
	"github.com/dzjyyds666/tq/pkg"
)

// TomlFile reads path as UTF-8 text (a leading BOM is dropped) and decodes
// it. Read failures come back as plain filesystem errors; only decode
// failures are *toml.ParseError.
func TomlFile(path string) (*toml.Table, error) {
	text, err := pkg.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	return toml.Parse(text)
}
