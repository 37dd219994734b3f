package pipeline

import (
	"io"
	"os"
	"strings"

	"datamorph/internal/mapper"
	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// FromFile eagerly reads and parses path, detecting the format from its
// extension. The returned source is reusable and forkable.
func FromFile(path string) (*ListSource, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return FromFileAs(path, format)
}

// FromFileAs is FromFile with an explicit format, for files whose extension
// does not match their contents.
func FromFileAs(path string, format Format) (*ListSource, error) {
	p, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, dataerr.Input("open %s", path).WithCause(err)
	}
	defer f.Close()
	rs, err := p.ParseReader(f)
	if err != nil {
		return nil, err
	}
	return &ListSource{rows: rs}, nil
}

// FromString eagerly parses content as the given format.
func FromString(content string, format Format) (*ListSource, error) {
	p, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	rs, err := p.Parse(content)
	if err != nil {
		return nil, err
	}
	return &ListSource{rows: rs}, nil
}

// FromRows wraps an in-memory row sequence.
func FromRows(rs []*rows.Row) *ListSource {
	return NewListSource(rs)
}

// FromStructs maps a slice of structs into an eager source via reflection.
func FromStructs[T any](items []T) (*ListSource, error) {
	rs, err := mapper.ToRows(items)
	if err != nil {
		return nil, err
	}
	return &ListSource{rows: rs}, nil
}

// FromReader wraps rc as a lazy source. Nothing is read until the terminal
// ToRows call, and rc is closed by that call regardless of outcome.
func FromReader(rc io.ReadCloser, format Format) (*StreamSource, error) {
	return NewStreamSource(rc, format)
}

// FromStreamFile opens path as a lazy source, detecting the format from its
// extension. The file stays open until the pipeline is consumed.
func FromStreamFile(path string) (*StreamSource, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, dataerr.Input("open %s", path).WithCause(err)
	}
	return NewStreamSource(f, format)
}

// ScanStructs materializes ds and maps the rows into a slice of T, coercing
// values through the row accessors.
func ScanStructs[T any](ds DataSource) ([]T, error) {
	rs, err := ds.ToRows()
	if err != nil {
		return nil, err
	}
	return mapper.FromRows[T](rs)
}

// stringReadCloser adapts a string for FromReader in tests and call sites
// that already hold content in memory.
type stringReadCloser struct {
	*strings.Reader
}

func (stringReadCloser) Close() error { return nil }

// StringReadCloser wraps content as a no-op-close ReadCloser.
func StringReadCloser(content string) io.ReadCloser {
	return stringReadCloser{strings.NewReader(content)}
}
