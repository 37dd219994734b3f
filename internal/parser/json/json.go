// Package json implements a hand-written JSON parser that turns documents
// into rows.
//
// Two structural shapes are supported:
//
//   - batch: one top-level array whose elements are all objects (Parser)
//   - lines: one standalone object per text line (LinesParser)
//
// Nested objects are flattened into the parent row using dot-joined key paths
// ("a.b.c"); arrays are rendered as a single text field "[e1, e2, ...]" —
// lossy and irreversible. The grammar is deliberately small: standard string
// escapes only (no \u), numbers without exponents.
package json

import (
	"io"
	"strconv"
	"strings"

	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// Parser parses batch-mode JSON: a top-level array of objects.
type Parser struct{}

// NewParser constructs a batch-mode Parser.
func NewParser() *Parser { return &Parser{} }

// Parse parses content as a top-level array of objects and flattens each
// element into a row. Empty input yields no rows.
func (p *Parser) Parse(content string) ([]*rows.Row, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	t := newTokenizer(content)
	v, err := parseValue(t)
	if err != nil {
		return nil, err
	}
	if err := t.expectEnd(); err != nil {
		return nil, err
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, dataerr.Format("JSON must be an array of objects")
	}
	out := make([]*rows.Row, 0, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(*object)
		if !ok {
			return nil, dataerr.Format("element %d of top-level array is not an object", i)
		}
		out = append(out, obj.toRow())
	}
	return out, nil
}

// ParseReader drains r and parses the whole document.
func (p *Parser) ParseReader(r io.Reader) ([]*rows.Row, error) {
	if r == nil {
		return nil, dataerr.Input("reader must not be nil")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, dataerr.Format("read JSON input").WithCause(err)
	}
	return p.Parse(string(b))
}

// object is a parsed JSON object with key order preserved.
type object struct {
	keys []string
	vals map[string]any
}

func (o *object) put(key string, v any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// toRow flattens o into a single row.
func (o *object) toRow() *rows.Row {
	row := rows.New()
	o.flattenInto("", row)
	return row
}

func (o *object) flattenInto(prefix string, row *rows.Row) {
	for _, k := range o.keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := o.vals[k].(type) {
		case *object:
			v.flattenInto(key, row)
		case []any:
			row.Set(key, rows.Text(renderArray(v)))
		default:
			row.Set(key, scalarValue(v))
		}
	}
}

func scalarValue(v any) rows.Value {
	switch t := v.(type) {
	case nil:
		return rows.Null()
	case bool:
		return rows.Bool(t)
	case int64:
		return rows.Int(t)
	case float64:
		return rows.Float(t)
	case string:
		return rows.Text(t)
	}
	return rows.Null()
}

// renderArray joins the textual form of every element: "[e1, e2]".
func renderArray(arr []any) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range arr {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(elementText(e))
	}
	b.WriteByte(']')
	return b.String()
}

func elementText(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case []any:
		return renderArray(t)
	case *object:
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(elementText(t.vals[k]))
		}
		b.WriteByte('}')
		return b.String()
	}
	return ""
}

// parseValue dispatches on the next non-whitespace character:
//
//	value := object | array | string | number | "true" | "false" | "null"
func parseValue(t *tokenizer) (any, error) {
	t.skipWhitespace()
	ch, err := t.peek()
	if err != nil {
		return nil, err
	}
	switch ch {
	case '{':
		return parseObject(t)
	case '[':
		return parseArray(t)
	case '"':
		return parseString(t)
	case 't', 'f':
		return parseBool(t)
	case 'n':
		if err := t.consumeLit("null"); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return parseNumber(t)
	}
}

func parseObject(t *tokenizer) (*object, error) {
	obj := &object{vals: make(map[string]any)}
	if err := t.consume('{'); err != nil {
		return nil, err
	}
	t.skipWhitespace()
	if ch, err := t.peek(); err != nil {
		return nil, err
	} else if ch == '}' {
		_ = t.consume('}')
		return obj, nil
	}

	for {
		t.skipWhitespace()
		key, err := parseString(t)
		if err != nil {
			return nil, err
		}
		t.skipWhitespace()
		if err := t.consume(':'); err != nil {
			return nil, err
		}
		v, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		obj.put(key, v)

		t.skipWhitespace()
		ch, err := t.peek()
		if err != nil {
			return nil, err
		}
		switch ch {
		case '}':
			_ = t.consume('}')
			return obj, nil
		case ',':
			_ = t.consume(',')
		default:
			return nil, dataerr.FormatAtOffset(t.pos, "expected ',' or '}' in object")
		}
	}
}

func parseArray(t *tokenizer) ([]any, error) {
	arr := make([]any, 0)
	if err := t.consume('['); err != nil {
		return nil, err
	}
	t.skipWhitespace()
	if ch, err := t.peek(); err != nil {
		return nil, err
	} else if ch == ']' {
		_ = t.consume(']')
		return arr, nil
	}

	for {
		v, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		t.skipWhitespace()
		ch, err := t.peek()
		if err != nil {
			return nil, err
		}
		switch ch {
		case ']':
			_ = t.consume(']')
			return arr, nil
		case ',':
			_ = t.consume(',')
		default:
			return nil, dataerr.FormatAtOffset(t.pos, "expected ',' or ']' in array")
		}
	}
}

func parseString(t *tokenizer) (string, error) {
	if err := t.consume('"'); err != nil {
		return "", err
	}
	var b strings.Builder
	for t.hasNext() {
		ch, _ := t.next()
		switch ch {
		case '"':
			return b.String(), nil
		case '\\':
			if !t.hasNext() {
				return "", dataerr.FormatAtOffset(t.pos, "unterminated string escape")
			}
			esc, _ := t.next()
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", dataerr.FormatAtOffset(t.pos, "invalid escape character: \\%c", esc)
			}
		default:
			b.WriteByte(ch)
		}
	}
	return "", dataerr.FormatAtOffset(t.pos, "unterminated string")
}

func parseBool(t *tokenizer) (bool, error) {
	ch, err := t.peek()
	if err != nil {
		return false, err
	}
	if ch == 't' {
		if err := t.consumeLit("true"); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := t.consumeLit("false"); err != nil {
		return false, err
	}
	return false, nil
}

// parseNumber accepts an optional leading '-', a digit run, and an optional
// '.' fraction. No exponent support; an integer that overflows int64 falls
// back to float64.
func parseNumber(t *tokenizer) (any, error) {
	start := t.pos
	var b strings.Builder

	if ch, err := t.peek(); err == nil && ch == '-' {
		b.WriteByte(ch)
		_, _ = t.next()
	}
	digits := 0
	for t.hasNext() {
		ch, _ := t.peek()
		if ch < '0' || ch > '9' {
			break
		}
		b.WriteByte(ch)
		_, _ = t.next()
		digits++
	}
	if digits == 0 {
		return nil, dataerr.FormatAtOffset(start, "unexpected character in value")
	}

	isFloat := false
	if t.hasNext() {
		if ch, _ := t.peek(); ch == '.' {
			isFloat = true
			b.WriteByte(ch)
			_, _ = t.next()
			for t.hasNext() {
				ch, _ := t.peek()
				if ch < '0' || ch > '9' {
					break
				}
				b.WriteByte(ch)
				_, _ = t.next()
			}
		}
	}

	if isFloat {
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return nil, dataerr.FormatAtOffset(start, "invalid number %q", b.String())
		}
		return f, nil
	}
	i, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(b.String(), 64)
		if ferr != nil {
			return nil, dataerr.FormatAtOffset(start, "invalid number %q", b.String())
		}
		return f, nil
	}
	return i, nil
}
