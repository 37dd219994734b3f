package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users
	// but does not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline. Path is a
// dotted path into the config (e.g. "storage.kind", "transform[1].kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; it returns findings and lets callers decide whether
// warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and identifies runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateSinks(p)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source requires a non-empty path",
		})
	}
	if s.Format != "" {
		switch s.Format {
		case "csv", "json", "jsonl", "ndjson", "jsonlines":
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.format",
				Message:  fmt.Sprintf("unknown format %q; use csv, json, or jsonl", s.Format),
			})
		}
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	known := map[string]struct{}{
		"require":   {},
		"normalize": {},
		"dedupe":    {},
	}
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		if strings.TrimSpace(t.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  "transform kind must not be empty",
			})
			continue
		}
		if _, ok := known[t.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown transform kind %q; ensure a matching implementation exists", t.Kind),
			})
		}
		if t.Kind == "require" && len(t.Options.StringSlice("fields")) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".options.fields",
				Message:  "require transform with no fields keeps every row",
			})
		}
	}
	return issues
}

func validateSinks(p Pipeline) []Issue {
	var issues []Issue

	hasFile := strings.TrimSpace(p.Output.Path) != ""
	hasDB := strings.TrimSpace(p.Storage.Kind) != ""
	if !hasFile && !hasDB {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output",
			Message:  "neither output.path nor storage.kind is set; the pipeline discards its rows",
		})
	}

	if hasDB {
		known := map[string]struct{}{
			"postgres": {},
			"mssql":    {},
			"sqlite":   {},
		}
		if _, ok := known[p.Storage.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.kind",
				Message:  fmt.Sprintf("unknown storage kind %q; use postgres, mssql, or sqlite", p.Storage.Kind),
			})
		}
		if strings.TrimSpace(p.Storage.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db.dsn",
				Message:  "storage requires a non-empty dsn",
			})
		}
		if strings.TrimSpace(p.Storage.DB.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.db.table",
				Message:  "storage requires a non-empty table",
			})
		}
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if r.LoaderWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.loader_workers",
			Message:  "loader_workers must not be negative",
		})
	}
	if r.LoaderWorkers > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.loader_workers",
			Message:  "more than one loader worker does not preserve row order at the destination",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "prometheus", "datadog":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; use prometheus or datadog", m.Backend),
		})
	}
	if m.Backend == "prometheus" && strings.TrimSpace(m.PushgatewayURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.pushgateway_url",
			Message:  "prometheus backend requires pushgateway_url",
		})
	}
	if m.Backend == "datadog" && strings.TrimSpace(m.StatsdAddr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.statsd_addr",
			Message:  "datadog backend requires statsd_addr",
		})
	}
	return issues
}
