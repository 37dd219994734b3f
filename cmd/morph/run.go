package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"datamorph/internal/config"
	"datamorph/internal/metrics"
	"datamorph/internal/monitor"
	"datamorph/internal/storage"
	"datamorph/internal/transformer"
	"datamorph/internal/transformer/builtin"
	"datamorph/pkg/pipeline"
	"datamorph/pkg/rows"
)

// run executes one configured pipeline: parse the source, apply the batch
// transforms, then write the file sink and/or load the SQL sink.
func run(ctx context.Context, p config.Pipeline) error {
	var mon *monitor.MemoryMonitor
	if p.Runtime.MemoryLimitBytes > 0 {
		mon = monitor.New(monitor.Options{LimitBytes: p.Runtime.MemoryLimitBytes})
	}

	start := time.Now()
	rs, err := parseSource(p.Source)
	metrics.RecordStage(p.Job, "parse", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("parse %s: %w", p.Source.Path, err)
	}
	metrics.RecordRows(p.Job, "parsed", int64(len(rs)))
	log.Printf("parsed %d rows from %s", len(rs), p.Source.Path)

	if mon != nil {
		if err := mon.Check(); err != nil {
			return err
		}
		log.Print(mon.Info())
	}

	chain, err := buildChain(p.Transform)
	if err != nil {
		return err
	}
	start = time.Now()
	out := chain.Apply(rs)
	metrics.RecordStage(p.Job, "transform", nil, time.Since(start))
	if dropped := len(rs) - len(out); dropped > 0 {
		metrics.RecordRows(p.Job, "dropped", int64(dropped))
		log.Printf("transforms dropped %d rows, %d remain", dropped, len(out))
	}

	if p.Output.Path != "" {
		start = time.Now()
		err := writeOutput(p.Output, out)
		metrics.RecordStage(p.Job, "write", err, time.Since(start))
		if err != nil {
			return fmt.Errorf("write %s: %w", p.Output.Path, err)
		}
		metrics.RecordRows(p.Job, "written", int64(len(out)))
		log.Printf("wrote %d rows to %s", len(out), p.Output.Path)
	}

	if p.Storage.Kind != "" {
		start = time.Now()
		n, err := loadStorage(ctx, p, out)
		metrics.RecordStage(p.Job, "load", err, time.Since(start))
		if err != nil {
			return fmt.Errorf("load into %s: %w", p.Storage.DB.Table, err)
		}
		log.Printf("loaded %d rows into %s (%s)", n, p.Storage.DB.Table, p.Storage.Kind)
	}

	return nil
}

func parseSource(src config.Source) ([]*rows.Row, error) {
	format := pipeline.FormatUnknown
	if src.Format != "" {
		f, err := pipeline.ParseFormat(src.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if src.Streaming {
		var (
			ds  *pipeline.StreamSource
			err error
		)
		if format == pipeline.FormatUnknown {
			ds, err = pipeline.FromStreamFile(src.Path)
		} else {
			ds, err = streamFileAs(src.Path, format)
		}
		if err != nil {
			return nil, err
		}
		return ds.ToRows()
	}

	if format == pipeline.FormatUnknown {
		ds, err := pipeline.FromFile(src.Path)
		if err != nil {
			return nil, err
		}
		return ds.ToRows()
	}
	ds, err := pipeline.FromFileAs(src.Path, format)
	if err != nil {
		return nil, err
	}
	return ds.ToRows()
}

func streamFileAs(path string, format pipeline.Format) (*pipeline.StreamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return pipeline.FromReader(f, format)
}

// buildChain maps configured transform steps onto the builtin transformers.
func buildChain(ts []config.Transform) (transformer.Chain, error) {
	var chain transformer.Chain
	for i, t := range ts {
		switch t.Kind {
		case "require":
			chain = append(chain, builtin.Require{
				Fields: t.Options.StringSlice("fields"),
			})
		case "normalize":
			chain = append(chain, builtin.Normalize{
				Fields:          t.Options.StringSlice("fields"),
				StripDiacritics: t.Options.Bool("strip_diacritics", false),
				TrimSpace:       t.Options.Bool("trim_space", false),
			})
		case "dedupe":
			chain = append(chain, builtin.DeDup{
				Keys:     t.Options.StringSlice("keys"),
				KeepLast: t.Options.Bool("keep_last", false),
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, t.Kind)
		}
	}
	return chain, nil
}

func writeOutput(out config.Output, rs []*rows.Row) error {
	ds := pipeline.FromRows(rs)
	if out.Format != "" {
		f, err := pipeline.ParseFormat(out.Format)
		if err != nil {
			return err
		}
		return pipeline.WriteFileAs(ds, out.Path, f)
	}
	return pipeline.WriteFile(ds, out.Path)
}

func loadStorage(ctx context.Context, p config.Pipeline, rs []*rows.Row) (int64, error) {
	cfg := storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     p.Storage.DB.DSN,
		Table:   p.Storage.DB.Table,
		Columns: p.Storage.DB.Columns,
	}
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, repo, cfg, rs); err != nil {
			return 0, err
		}
	}

	return storage.Load(ctx, repo, storage.ColumnsFor(cfg, rs), rs, storage.LoadOptions{
		BatchSize: p.Runtime.BatchSize,
		Workers:   p.Runtime.LoaderWorkers,
		Job:       p.Job,
	})
}
