package json

import "datamorph/pkg/dataerr"

// tokenizer is a byte cursor over a JSON document. All errors it produces
// carry the current character offset.
type tokenizer struct {
	src string
	pos int
}

func newTokenizer(src string) *tokenizer { return &tokenizer{src: src} }

func (t *tokenizer) hasNext() bool { return t.pos < len(t.src) }

// next consumes and returns the next character.
func (t *tokenizer) next() (byte, error) {
	if !t.hasNext() {
		return 0, dataerr.FormatAtOffset(t.pos, "unexpected end of JSON")
	}
	ch := t.src[t.pos]
	t.pos++
	return ch, nil
}

// peek returns the next character without consuming it.
func (t *tokenizer) peek() (byte, error) {
	if !t.hasNext() {
		return 0, dataerr.FormatAtOffset(t.pos, "unexpected end of JSON")
	}
	return t.src[t.pos], nil
}

// consume reads the next character and fails unless it matches expected.
func (t *tokenizer) consume(expected byte) error {
	ch, err := t.next()
	if err != nil {
		return err
	}
	if ch != expected {
		return dataerr.FormatAtOffset(t.pos-1, "expected %q", string(expected))
	}
	return nil
}

// consumeLit consumes an exact literal such as "true" or "null".
func (t *tokenizer) consumeLit(lit string) error {
	for i := 0; i < len(lit); i++ {
		if err := t.consume(lit[i]); err != nil {
			return dataerr.FormatAtOffset(t.pos, "expected %q", lit)
		}
	}
	return nil
}

func (t *tokenizer) skipWhitespace() {
	for t.hasNext() {
		switch t.src[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
		default:
			return
		}
	}
}

// expectEnd fails when non-whitespace input remains after the document.
func (t *tokenizer) expectEnd() error {
	t.skipWhitespace()
	if t.hasNext() {
		return dataerr.FormatAtOffset(t.pos, "unexpected trailing content")
	}
	return nil
}
