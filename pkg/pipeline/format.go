package pipeline

import (
	"path/filepath"
	"strings"

	"datamorph/internal/parser"
	"datamorph/internal/parser/delim"
	"datamorph/internal/parser/json"
	"datamorph/pkg/dataerr"
)

// Format identifies an input/output data format.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatJSON
	FormatJSONLines
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	}
	return "unknown"
}

// ParseFormat maps a format name ("csv", "json", "jsonl"/"ndjson") to a
// Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson", "jsonlines":
		return FormatJSONLines, nil
	}
	return FormatUnknown, dataerr.Input("unsupported format %q", name)
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	if strings.TrimSpace(path) == "" {
		return FormatUnknown, dataerr.Input("file path must not be empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	}
	return FormatUnknown, dataerr.Input("unsupported file extension in %q", path)
}

// parserFor returns the parser implementing the given format.
func parserFor(f Format) (parser.Parser, error) {
	switch f {
	case FormatCSV:
		return delim.NewParser(delim.Options{}), nil
	case FormatJSON:
		return json.NewParser(), nil
	case FormatJSONLines:
		return json.NewLinesParser(), nil
	}
	return nil, dataerr.Input("unsupported format %q", f)
}
