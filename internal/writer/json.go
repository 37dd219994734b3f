package writer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// JSONWriter writes rows as a pretty-printed JSON array of objects, two-space
// indented. Each object carries the fields of its own row, in row order.
// Stringified-array values are written back as plain strings; their structure
// was already lost at parse time.
type JSONWriter struct{}

// NewJSONWriter returns a writer for JSON array output.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

func (jw *JSONWriter) Write(w io.Writer, rs []*rows.Row) error {
	bw := bufio.NewWriter(w)
	if len(rs) == 0 {
		bw.WriteString("[]\n")
		if err := bw.Flush(); err != nil {
			return dataerr.Write("flush JSON output").WithCause(err)
		}
		return nil
	}
	bw.WriteString("[\n")
	for i, r := range rs {
		writeObject(bw, r, "  ")
		if i < len(rs)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("]\n")
	if err := bw.Flush(); err != nil {
		return dataerr.Write("flush JSON output").WithCause(err)
	}
	return nil
}

// JSONLinesWriter writes one compact JSON object per line.
type JSONLinesWriter struct{}

// NewJSONLinesWriter returns a writer for JSON Lines output.
func NewJSONLinesWriter() *JSONLinesWriter { return &JSONLinesWriter{} }

func (jw *JSONLinesWriter) Write(w io.Writer, rs []*rows.Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rs {
		writeObject(bw, r, "")
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return dataerr.Write("flush JSON Lines output").WithCause(err)
	}
	return nil
}

// writeObject renders one row as a JSON object. With a non-empty indent the
// object spans multiple lines at that indent level; with an empty indent it
// is compact.
func writeObject(bw *bufio.Writer, r *rows.Row, indent string) {
	names := r.Names()
	if len(names) == 0 {
		bw.WriteString(indent + "{}")
		return
	}
	pretty := indent != ""
	if pretty {
		bw.WriteString(indent + "{\n")
	} else {
		bw.WriteByte('{')
	}
	for i, name := range names {
		if pretty {
			bw.WriteString(indent + "  ")
		}
		bw.WriteString(quoteJSON(name))
		bw.WriteString(": ")
		bw.WriteString(renderValue(r.Get(name)))
		if i < len(names)-1 {
			bw.WriteByte(',')
		}
		if pretty {
			bw.WriteByte('\n')
		} else if i < len(names)-1 {
			bw.WriteByte(' ')
		}
	}
	if pretty {
		bw.WriteString(indent + "}")
	} else {
		bw.WriteByte('}')
	}
}

// renderValue serializes a Value as a JSON literal.
func renderValue(v rows.Value) string {
	switch v.Kind() {
	case rows.KindNull:
		return "null"
	case rows.KindBool:
		return strconv.FormatBool(v.BoolVal())
	case rows.KindInt:
		return strconv.FormatInt(v.IntVal(), 10)
	case rows.KindFloat:
		return strconv.FormatFloat(v.FloatVal(), 'g', -1, 64)
	default:
		return quoteJSON(v.TextVal())
	}
}

// quoteJSON renders s as a JSON string literal, escaping quotes, backslashes,
// and control characters.
func quoteJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				const hex = "0123456789abcdef"
				b.WriteByte(hex[r>>4])
				b.WriteByte(hex[r&0xf])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
