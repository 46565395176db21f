package ingestion

import "context"

// ProcessBatch exposes one poll iteration to tests.
func ProcessBatch(w *IngestionWorker, ctx context.Context) (int, error) {
	return w.processBatch(ctx)
}
