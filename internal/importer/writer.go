package importer

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const DefaultBatchSize = 100

// Outcome counts the rows one write call inserted or updated.
type Outcome struct {
	Inserted int
	Updated  int
}

// WriteFunc persists one unit (a record or a group of records).
type WriteFunc[T any] func(ctx context.Context, item T) (Outcome, error)

// Upsert adapts a repository upsert that reports whether it inserted.
func Upsert[T any](fn func(ctx context.Context, rec T) (bool, error)) WriteFunc[T] {
	return func(ctx context.Context, rec T) (Outcome, error) {
		inserted, err := fn(ctx, rec)
		if err != nil {
			return Outcome{}, err
		}
		if inserted {
			return Outcome{Inserted: 1}, nil
		}
		return Outcome{Updated: 1}, nil
	}
}

// Writer upserts items in fixed-size batches. Items of a batch are written
// concurrently and the whole batch is awaited before the next one starts.
// A failed item is logged and counted; it never stops the run.
type Writer[T any] struct {
	BatchSize int
	Logger    *slog.Logger
	Write     WriteFunc[T]
	// Key identifies an item in logs and failure reports.
	Key func(T) string
	// Size is the number of records an item stands for. Nil means 1.
	Size func(T) int
}

type writeResult struct {
	outcome Outcome
	err     error
}

// Run writes items and records the outcome on report. The returned error is
// only set when ctx is cancelled between batches.
func (w *Writer[T]) Run(ctx context.Context, items []T, report *Report) error {
	size := w.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := items[start:min(start+size, len(items))]
		results := make([]writeResult, len(batch))

		var g errgroup.Group
		for i, item := range batch {
			g.Go(func() error {
				outcome, err := w.Write(ctx, item)
				results[i] = writeResult{outcome: outcome, err: err}
				return nil
			})
		}
		_ = g.Wait()

		for i, res := range results {
			if res.err != nil {
				key := w.Key(batch[i])
				logger.Error("failed to write record",
					slog.String("entity", report.Entity),
					slog.String("key", key),
					slog.String("error", res.err.Error()),
				)
				report.Failed += w.size(batch[i]) - 1
				report.Fail(key, res.err)
				continue
			}
			report.Inserted += res.outcome.Inserted
			report.Updated += res.outcome.Updated
		}

		logger.Debug("batch written",
			slog.String("entity", report.Entity),
			slog.Int("from", start),
			slog.Int("to", start+len(batch)),
		)
	}
	return nil
}

func (w *Writer[T]) size(item T) int {
	if w.Size == nil {
		return 1
	}
	return w.Size(item)
}
