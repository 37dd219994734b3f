// Package delim implements a hand-written parser for delimited text
// (CSV-style) with a quote/escape state machine.
//
// The first line is the header; every data line must split into exactly as
// many fields as the header. Quoting rules:
//
//   - A raw newline or carriage return inside double quotes is literal field
//     content, not a record break; "\r\n" outside quotes is one break.
//   - `""` inside a quoted field unescapes to a single `"`.
//   - A value fully wrapped in quotes is unwrapped with its internal
//     whitespace preserved; an unquoted value is trimmed.
//   - An empty result becomes a Null value.
//
// Unquoted, non-empty values are coerced numeric-first: integer, then float,
// then the boolean tokens true/false/1/0/yes/no/y/n (case-insensitive), and
// otherwise stay text. Numeric-first means "1" parses as the integer 1, not
// the boolean true.
package delim

import (
	"io"
	"strconv"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// headerBlacklist holds punctuation that never appears in a plausible header
// line. It is a cheap format heuristic, not a grammar check.
const headerBlacklist = "!@#$%^&*()"

// Options configures the parser. All fields are optional.
type Options struct {
	// Comma is the field delimiter, a single ASCII character. When zero,
	// ',' is used.
	Comma rune
}

// Parser parses delimited text according to Options. It is stateless and safe
// to reuse across inputs.
type Parser struct{ comma rune }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}
	return &Parser{comma: comma}
}

// Parse splits content into quote-aware lines and builds one row per data
// line, using line 1 as the header. Empty input yields no rows.
func (p *Parser) Parse(content string) ([]*rows.Row, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	headers, err := p.parseHeader(lines[0])
	if err != nil {
		return nil, err
	}
	if len(lines) == 1 {
		return nil, nil
	}

	out := make([]*rows.Row, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		row, err := p.parseLine(line, headers, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseReader drains r and parses the whole document. Read failures are
// reported as format errors wrapping the cause.
func (p *Parser) ParseReader(r io.Reader) ([]*rows.Row, error) {
	if r == nil {
		return nil, dataerr.Input("reader must not be nil")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, dataerr.Format("read delimited input").WithCause(err)
	}
	return p.Parse(string(b))
}

// parseHeader validates and splits the header line.
func (p *Parser) parseHeader(line string) ([]string, error) {
	if strings.ContainsAny(line, headerBlacklist) {
		return nil, dataerr.FormatAtLine(1, "invalid delimited header: contains one of %q", headerBlacklist)
	}
	raw := p.splitFields(line)
	headers := make([]string, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(unquote(h))
		if name == "" {
			return nil, dataerr.FormatAtLine(1, "empty header name in column %d", i+1)
		}
		headers[i] = name
	}
	return headers, nil
}

// parseLine splits one data line and builds a row. lineNum is 1-based and
// used only for error context.
func (p *Parser) parseLine(line string, headers []string, lineNum int) (*rows.Row, error) {
	fields := p.splitFields(line)
	if len(fields) != len(headers) {
		return nil, dataerr.FormatAtLine(lineNum,
			"column count mismatch: expected %d columns, got %d columns", len(headers), len(fields))
	}
	row := rows.New()
	for i, h := range headers {
		row.Set(h, fieldValue(fields[i]))
	}
	return row, nil
}

// splitLines breaks content into logical lines, treating newlines inside
// quotes as content and collapsing \r\n into a single break.
func splitLines(content string) []string {
	var (
		lines    []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(content) && content[i+1] == '"' {
				cur.WriteByte('"')
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
				cur.WriteByte(ch)
			}
		case ch == '\n' || ch == '\r':
			if inQuotes {
				cur.WriteByte(ch)
				continue
			}
			lines = append(lines, cur.String())
			cur.Reset()
			if ch == '\r' && i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// splitFields splits one line on the delimiter with the same quote tracking
// as splitLines. Quotes and doubled quotes are kept in the raw field; they
// are resolved later by fieldValue.
func (p *Parser) splitFields(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := rune(line[i])
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteString(`""`)
				i++
			} else {
				inQuotes = !inQuotes
				cur.WriteByte('"')
			}
		case ch == p.comma && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// unquote strips a full quote wrap and resolves escaped quotes, leaving
// anything else untouched.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// fieldValue post-processes one raw field:
//
//   - empty → Null
//   - fully quoted → unwrapped text, internal whitespace preserved, never
//     type-coerced ("30" stays text)
//   - unquoted → trimmed; empty after trim → Null; otherwise coerced
func fieldValue(raw string) rows.Value {
	if raw == "" {
		return rows.Null()
	}
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		if len(raw) == 2 {
			return rows.Text("")
		}
		return rows.Text(strings.ReplaceAll(raw[1:len(raw)-1], `""`, `"`))
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return rows.Null()
	}
	return coerce(trimmed)
}

// coerce applies the numeric-first coercion order to an unquoted value.
func coerce(s string) rows.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return rows.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return rows.Float(f)
	}
	switch strings.ToLower(s) {
	case "true", "yes", "y":
		return rows.Bool(true)
	case "false", "no", "n":
		return rows.Bool(false)
	}
	return rows.Text(s)
}
