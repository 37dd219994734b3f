// Package parser declares the contract implemented by the format parsers.
package parser

import (
	"io"

	"datamorph/pkg/rows"
)

// Parser turns raw input into an ordered sequence of rows. Parse operates on
// a fully materialized document; ParseReader drains r and parses the result
// (it is the batch entry point used by the lazy pipeline).
type Parser interface {
	Parse(content string) ([]*rows.Row, error)
	ParseReader(r io.Reader) ([]*rows.Row, error)
}
