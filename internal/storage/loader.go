package storage

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"datamorph/internal/metrics"
	"datamorph/pkg/dataerr"
	"datamorph/pkg/rows"
)

// LoadOptions tunes the batched loader.
type LoadOptions struct {
	// BatchSize is the number of rows per CopyFrom call. Defaults to 1000.
	BatchSize int

	// Workers is the number of concurrent CopyFrom calls. Defaults to 1,
	// which preserves input order at the destination.
	Workers int

	// Job labels the metrics emitted by the load.
	Job string
}

// Load flattens rs into positional batches and inserts them through repo.
// It returns the total number of rows the backend reported inserted and the
// first error encountered; on error, in-flight batches finish or cancel via
// the derived context before Load returns.
func Load(ctx context.Context, repo Repository, columns []string, rs []*rows.Row, opts LoadOptions) (int64, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if len(columns) == 0 {
		return 0, dataerr.Input("no destination columns configured")
	}

	var (
		total   atomic.Int64
		batches atomic.Int64
		start   = time.Now()
	)

	g, ctx := errgroup.WithContext(ctx)
	feed := make(chan [][]any, workers)

	g.Go(func() error {
		defer close(feed)
		batch := make([][]any, 0, batchSize)
		for _, r := range rs {
			batch = append(batch, RowValues(r, columns))
			if len(batch) >= batchSize {
				select {
				case feed <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
				batch = make([][]any, 0, batchSize)
			}
		}
		if len(batch) > 0 {
			select {
			case feed <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for batch := range feed {
				n, err := repo.CopyFrom(ctx, columns, batch)
				total.Add(n)
				if err != nil {
					log.Printf("loader: insert failed after=%d total=%d err=%v", n, total.Load(), err)
					return err
				}
				b := batches.Add(1)
				elapsed := time.Since(start).Truncate(time.Millisecond)
				rps := float64(0)
				if elapsed > 0 {
					rps = float64(total.Load()) / elapsed.Seconds()
				}
				log.Printf("batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
					b, rps, n, total.Load(), elapsed)
			}
			return nil
		})
	}

	err := g.Wait()
	metrics.RecordRows(opts.Job, "loaded", total.Load())
	metrics.RecordBatches(opts.Job, batches.Load())
	if err != nil {
		return total.Load(), dataerr.Write("load rows into table").WithCause(err)
	}
	log.Printf("loader: done, total_inserted=%d elapsed=%s", total.Load(), time.Since(start).Truncate(time.Millisecond))
	return total.Load(), nil
}
