package pipeline

import (
	"bytes"
	"io"
	"os"

	"datamorph/internal/writer"
	"datamorph/pkg/dataerr"
)

// writerFor returns the serializer implementing the given format.
func writerFor(f Format) (writer.Writer, error) {
	switch f {
	case FormatCSV:
		return writer.NewDelimWriter(writer.DelimOptions{}), nil
	case FormatJSON:
		return writer.NewJSONWriter(), nil
	case FormatJSONLines:
		return writer.NewJSONLinesWriter(), nil
	}
	return nil, dataerr.Input("unsupported output format %q", f)
}

// WriteFile materializes ds and writes it to path in the format implied by
// the file extension.
func WriteFile(ds DataSource, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	return WriteFileAs(ds, path, format)
}

// WriteFileAs is WriteFile with an explicit output format.
func WriteFileAs(ds DataSource, path string, format Format) error {
	w, err := writerFor(format)
	if err != nil {
		return err
	}
	rs, err := ds.ToRows()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return dataerr.Write("create %s", path).WithCause(err)
	}
	if err := w.Write(f, rs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return dataerr.Write("close %s", path).WithCause(err)
	}
	return nil
}

// WriteTo materializes ds and serializes it to out.
func WriteTo(ds DataSource, out io.Writer, format Format) error {
	w, err := writerFor(format)
	if err != nil {
		return err
	}
	rs, err := ds.ToRows()
	if err != nil {
		return err
	}
	return w.Write(out, rs)
}

// Marshal materializes ds and returns its serialized form.
func Marshal(ds DataSource, format Format) (string, error) {
	var buf bytes.Buffer
	if err := WriteTo(ds, &buf, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}
