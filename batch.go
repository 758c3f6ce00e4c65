package datrie

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// batchChunk is the number of keys one worker looks up between
// cancellation checks.
const batchChunk = 1024

// Result is the outcome of one lookup in FindBatch.
type Result struct {
	Value int32
	Found bool
}

// FindBatch looks up keys in parallel. results[i] belongs to keys[i]. It
// returns ctx.Err() if the context is canceled before all keys are done.
func (t *Trie) FindBatch(ctx context.Context, keys [][]byte) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for lo := 0; lo < len(keys); lo += batchChunk {
		hi := min(lo+batchChunk, len(keys))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				v, ok := t.Find(keys[i])
				results[i] = Result{Value: v, Found: ok}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := 0
	for _, r := range results {
		if r.Found {
			found++
		}
	}
	t.opts.metricsCollector.RecordBatchFind(len(keys), found, time.Since(start))
	return results, nil
}
