package worker

import (
	"context"
)

// Worker - фоновый потребитель стрима, которым управляет WorkerManager.
// Сейчас это только IngestionWorker (stream:places:ingest).
type Worker interface {
	// Start блокирует до Stop или отмены ctx. Ошибка уходит в
	// WorkerManager.Errors.
	Start(ctx context.Context) error

	// Stop просит Start вернуться; повторный вызов безопасен.
	Stop() error

	// Name - имя для логов и метрик
	Name() string
}
