// Package config defines the canonical, JSON-serializable configuration
// model for ingestion pipelines. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk and passed
// through the program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":    "employees",
//	  "source": { "path": "data/employees.csv" },
//	  "transform": [
//	    { "kind": "require", "options": { "fields": ["name"] } },
//	    { "kind": "dedupe",  "options": { "keys": ["id"] } }
//	  ],
//	  "output":  { "path": "out/employees.json" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "morph.db", "table": "employees" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source describes where input data comes from.
	Source Source `json:"source"`

	// Transform lists the ordered batch transforms applied to parsed rows.
	// Each has a kind and an options bag whose shape is defined by the
	// transform implementation.
	Transform []Transform `json:"transform"`

	// Output optionally writes the transformed rows back to a file.
	Output Output `json:"output"`

	// Storage optionally loads the transformed rows into a SQL backend.
	Storage Storage `json:"storage"`

	// Runtime controls batching and loader concurrency.
	Runtime RuntimeConfig `json:"runtime"`

	// Metrics selects an optional metrics backend.
	Metrics Metrics `json:"metrics"`
}

// Source identifies the input data.
type Source struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`

	// Format overrides extension-based detection: "csv", "json", "jsonl".
	Format string `json:"format"`

	// Streaming selects the lazy single-use source instead of the eager one.
	Streaming bool `json:"streaming"`
}

// Transform defines a single batch transform step.
type Transform struct {
	// Kind selects the implementation: "require", "normalize", "dedupe".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// Output configures the optional file sink.
type Output struct {
	// Path is the destination file; empty disables the file sink.
	Path string `json:"path"`

	// Format overrides extension-based detection.
	Format string `json:"format"`
}

// Storage selects the optional SQL sink.
type Storage struct {
	// Kind selects the backend: "postgres", "mssql", "sqlite". Empty
	// disables the SQL sink.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the SQL sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table"`

	// Columns pins the destination column order. Empty derives it from the
	// first row.
	Columns []string `json:"columns"`

	// AutoCreateTable creates the destination table from the row sample
	// when it does not exist.
	AutoCreateTable bool `json:"auto_create_table"`
}

// RuntimeConfig controls batching and concurrency.
type RuntimeConfig struct {
	BatchSize     int `json:"batch_size"`
	LoaderWorkers int `json:"loader_workers"`

	// MemoryLimitBytes bounds the heap budget checked during the run.
	// Zero disables the check.
	MemoryLimitBytes uint64 `json:"memory_limit_bytes"`
}

// Metrics selects a metrics backend.
type Metrics struct {
	// Backend is "prometheus", "datadog", or empty for none.
	Backend string `json:"backend"`

	// PushgatewayURL is required for the "prometheus" backend.
	PushgatewayURL string `json:"pushgateway_url"`

	// StatsdAddr is required for the "datadog" backend.
	StatsdAddr string `json:"statsd_addr"`
}

// Load reads and decodes a pipeline file.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read pipeline config: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode pipeline config %s: %w", path, err)
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns the provided default
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this accepts float64 and casts.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map, removing nil checks at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
