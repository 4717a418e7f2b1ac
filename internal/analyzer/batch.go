package analyzer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/flowtag/flowtag/internal/tags"
)

// DefaultWorkers is the batch pool size when the caller does not set one.
const DefaultWorkers = 4

// BatchResult pairs one input hint with its analysis. Analysis is nil
// when the batch was cancelled before the track was dispatched.
type BatchResult struct {
	Hint     tags.TrackHint
	Analysis *tags.FinalAnalysis
}

// AnalyzeBatch runs Analyze over the hints with a bounded worker pool.
// Cancellation is cooperative: no new track starts after ctx is done,
// but a track already in flight always completes, so partially fused
// results never appear. Results keep input order.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, hints []tags.TrackHint, workers int) []BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(hints) {
		workers = len(hints)
	}

	results := make([]BatchResult, len(hints))
	for i, h := range hints {
		results[i] = BatchResult{Hint: h}
	}
	if len(hints) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i].Analysis = o.Analyze(ctx, hints[i])
			}
		}()
	}

dispatch:
	for i := range hints {
		select {
		case <-ctx.Done():
			o.logger.Warn("batch cancelled",
				slog.Int("dispatched", i),
				slog.Int("total", len(hints)))
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
