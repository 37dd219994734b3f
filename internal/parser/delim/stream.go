package delim

import (
	"bufio"
	"io"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// utf8BOM is stripped from the start of the header line if present.
const utf8BOM = "\uFEFF"

// RowIter is a pull-based iterator over delimited records. It reads and
// parses one logical record per Next call, so a format error in record N is
// only raised once the caller reaches record N.
//
// Usage follows the bufio.Scanner pattern:
//
//	it, err := p.Stream(r)
//	for it.Next() {
//		row := it.Row()
//	}
//	if err := it.Err(); err != nil { ... }
type RowIter struct {
	p       *Parser
	br      *bufio.Reader
	headers []string

	physLine int // physical lines fully consumed, header included
	row      *rows.Row
	err      error
	done     bool
}

// Stream reads and validates the header line eagerly, then returns an
// iterator over the remaining records. An empty input yields an iterator
// that produces no rows.
func (p *Parser) Stream(r io.Reader) (*RowIter, error) {
	if r == nil {
		return nil, dataerr.Input("reader must not be nil")
	}
	it := &RowIter{p: p, br: bufio.NewReader(r)}

	header, n, err := readRecord(it.br)
	if err == io.EOF {
		it.done = true
		return it, nil
	}
	if err != nil {
		return nil, dataerr.Format("read delimited header").WithCause(err)
	}
	it.physLine = n

	header = strings.TrimPrefix(header, utf8BOM)
	if strings.TrimSpace(header) == "" {
		it.done = true
		return it, nil
	}
	headers, perr := p.parseHeader(header)
	if perr != nil {
		return nil, perr
	}
	it.headers = headers
	return it, nil
}

// Next advances to the next record, skipping blank lines. It returns false
// at the end of input or on the first error; check Err afterwards.
func (it *RowIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	for {
		rec, n, err := readRecord(it.br)
		if err == io.EOF {
			it.done = true
			return false
		}
		if err != nil {
			it.err = dataerr.Format("read delimited input").WithCause(err)
			return false
		}
		startLine := it.physLine + 1
		it.physLine += n

		line := strings.TrimSpace(rec)
		if line == "" {
			continue
		}
		row, perr := it.p.parseLine(line, it.headers, startLine)
		if perr != nil {
			it.err = perr
			return false
		}
		it.row = row
		return true
	}
}

// Row returns the record produced by the last successful Next call.
func (it *RowIter) Row() *rows.Row { return it.row }

// Err returns the first error encountered, or nil after a clean end of input.
func (it *RowIter) Err() error { return it.err }

// readRecord reads one logical record: bytes up to a line break outside
// quotes. It returns the record, the number of physical lines it spanned,
// and io.EOF only when no bytes remain at all. A final record without a
// trailing newline is returned normally; the next call reports io.EOF.
func readRecord(br *bufio.Reader) (string, int, error) {
	var (
		cur      strings.Builder
		inQuotes bool
		span     = 1
	)
	for {
		ch, err := br.ReadByte()
		if err == io.EOF {
			if cur.Len() == 0 {
				return "", 0, io.EOF
			}
			return cur.String(), span, nil
		}
		if err != nil {
			return "", 0, err
		}

		switch ch {
		case '"':
			if inQuotes {
				next, perr := br.Peek(1)
				if perr == nil && next[0] == '"' {
					_, _ = br.ReadByte()
					cur.WriteString(`""`)
					continue
				}
			}
			inQuotes = !inQuotes
			cur.WriteByte(ch)
		case '\r', '\n':
			if inQuotes {
				cur.WriteByte(ch)
				if ch == '\n' {
					span++
				}
				continue
			}
			if ch == '\r' {
				next, perr := br.Peek(1)
				if perr == nil && next[0] == '\n' {
					_, _ = br.ReadByte()
				}
			}
			return cur.String(), span, nil
		default:
			cur.WriteByte(ch)
		}
	}
}
