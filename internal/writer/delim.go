package writer

import (
	"bufio"
	"io"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// DelimWriter writes rows as delimiter-separated text with a header line.
// Fields containing the delimiter, a double quote, or a newline are wrapped
// in double quotes with embedded quotes doubled. Null values write as empty
// fields.
type DelimWriter struct {
	comma rune
}

// DelimOptions configures a DelimWriter.
type DelimOptions struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// NewDelimWriter returns a writer for delimiter-separated output.
func NewDelimWriter(opts DelimOptions) *DelimWriter {
	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}
	return &DelimWriter{comma: comma}
}

func (dw *DelimWriter) Write(w io.Writer, rs []*rows.Row) error {
	bw := bufio.NewWriter(w)
	cols := columnOrder(rs)
	if err := dw.writeRecord(bw, cols); err != nil {
		return err
	}
	fields := make([]string, len(cols))
	for _, r := range rs {
		for i, name := range cols {
			fields[i] = r.Get(name).String()
		}
		if err := dw.writeRecord(bw, fields); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return dataerr.Write("flush delimited output").WithCause(err)
	}
	return nil
}

func (dw *DelimWriter) writeRecord(bw *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := bw.WriteRune(dw.comma); err != nil {
				return dataerr.Write("write delimited output").WithCause(err)
			}
		}
		if _, err := bw.WriteString(dw.quote(f)); err != nil {
			return dataerr.Write("write delimited output").WithCause(err)
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return dataerr.Write("write delimited output").WithCause(err)
	}
	return nil
}

// quote wraps f in double quotes when it contains the delimiter, a quote, or
// a line break, doubling any embedded quotes.
func (dw *DelimWriter) quote(f string) string {
	if !strings.ContainsRune(f, dw.comma) &&
		!strings.ContainsAny(f, "\"\n\r") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
