package json

import (
	"bufio"
	"io"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// LinesParser parses line-mode JSON ("one object per line"). Blank lines are
// skipped without producing rows, but still advance the physical line counter
// used in error messages. A parse failure on any line aborts the whole
// sequence with that line's 1-based number.
type LinesParser struct{}

// NewLinesParser constructs a line-mode parser.
func NewLinesParser() *LinesParser { return &LinesParser{} }

// Parse parses each non-blank line of content as a standalone JSON object.
func (p *LinesParser) Parse(content string) ([]*rows.Row, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var out []*rows.Row
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := parseObjectLine(line, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseReader drains r and parses the whole document.
func (p *LinesParser) ParseReader(r io.Reader) ([]*rows.Row, error) {
	if r == nil {
		return nil, dataerr.Input("reader must not be nil")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, dataerr.Format("read JSON Lines input").WithCause(err)
	}
	return p.Parse(string(b))
}

// LineIter is a pull-based iterator over JSON Lines records, one line parsed
// per Next call.
type LineIter struct {
	sc   *bufio.Scanner
	line int
	row  *rows.Row
	err  error
	done bool
}

// Stream returns an iterator over r. Lines are read and parsed lazily.
func (p *LinesParser) Stream(r io.Reader) (*LineIter, error) {
	if r == nil {
		return nil, dataerr.Input("reader must not be nil")
	}
	return &LineIter{sc: bufio.NewScanner(r)}, nil
}

// Next advances to the next object line, skipping blanks. It returns false
// at end of input or on the first error; check Err afterwards.
func (it *LineIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	for it.sc.Scan() {
		it.line++
		text := it.sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		row, err := parseObjectLine(text, it.line)
		if err != nil {
			it.err = err
			return false
		}
		it.row = row
		return true
	}
	it.done = true
	if err := it.sc.Err(); err != nil {
		it.err = dataerr.Format("read JSON Lines input").WithCause(err)
	}
	return false
}

// Row returns the record produced by the last successful Next call.
func (it *LineIter) Row() *rows.Row { return it.row }

// Err returns the first error encountered, or nil after a clean end of input.
func (it *LineIter) Err() error { return it.err }

// parseObjectLine parses one physical line as a standalone JSON object.
// lineNum is 1-based and attached to every error.
func parseObjectLine(line string, lineNum int) (*rows.Row, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil, dataerr.FormatAtLine(lineNum, "line is not a JSON object")
	}
	t := newTokenizer(trimmed)
	obj, err := parseObject(t)
	if err != nil {
		return nil, dataerr.FormatAtLine(lineNum, "invalid JSON object").WithCause(err)
	}
	if err := t.expectEnd(); err != nil {
		return nil, dataerr.FormatAtLine(lineNum, "invalid JSON object").WithCause(err)
	}
	return obj.toRow(), nil
}
