package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/metrics"
	"github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/usecase"
	"github.com/resource-store/internal/worker"
)

const (
	workerName      = "places-ingestion"
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
	retryBackoff    = 200 * time.Millisecond

	// PendingClaimIdle - сколько сообщение может висеть без ACK, прежде чем
	// его заберет другой consumer
	PendingClaimIdle = 5 * time.Minute
)

// Ingester is the part of IngestionUseCase the worker drives.
type Ingester interface {
	Ingest(ctx context.Context, places []domain.PlaceSearchResult) (*usecase.IngestResult, error)
	SyncNearby(ctx context.Context, req domain.SyncRequest) (*usecase.IngestResult, error)
}

var _ worker.Worker = (*IngestionWorker)(nil)

// IngestionWorker обрабатывает события импорта мест из stream:places:ingest
type IngestionWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	ingester     Ingester
	consumerName string
	maxRetries   int
	batchSize    int64
}

// NewIngestionWorker создает новый IngestionWorker
func NewIngestionWorker(
	streamRepo repository.StreamRepository,
	ingester Ingester,
	consumerGroup string,
	maxRetries int,
	batchSize int64,
	logger *zap.Logger,
) *IngestionWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if batchSize <= 0 {
		batchSize = 10
	}

	return &IngestionWorker{
		BaseWorker:   worker.NewBaseWorker(workerName, consumerGroup, logger),
		streamRepo:   streamRepo,
		ingester:     ingester,
		consumerName: consumerName,
		maxRetries:   maxRetries,
		batchSize:    batchSize,
	}
}

// Start запускает воркер
func (w *IngestionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting IngestionWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int64("batch_size", w.batchSize))

	// Создаем consumer group
	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamPlacesIngest, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Sleep(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Sleep(ctx, emptyQueueSleep)
			}
		}
	}
}

// processBatch читает batch сообщений и обрабатывает каждое событие отдельно.
// Stale pending entries of the group (left by an interrupted or dead
// consumer) are claimed before new ones are read.
// Возвращает количество прочитанных сообщений
func (w *IngestionWorker) processBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ClaimPending(
		ctx,
		domain.StreamPlacesIngest,
		w.ConsumerGroup(),
		w.consumerName,
		PendingClaimIdle,
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim pending: %w", err)
	}

	if len(messages) == 0 {
		messages, err = w.streamRepo.ConsumeBatch(
			ctx,
			domain.StreamPlacesIngest,
			w.ConsumerGroup(),
			w.consumerName,
			w.batchSize,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to consume batch: %w", err)
		}
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	for _, msg := range messages {
		w.handleMessage(ctx, msg)
	}

	return len(messages), nil
}

func (w *IngestionWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	event, err := parseMessage(msg)
	if err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		metrics.WorkerMessagesTotal.WithLabelValues(workerName, "invalid").Inc()
		// ACK битое сообщение чтобы не застревало
		w.ack(ctx, msg.ID)
		return
	}

	result, err := w.process(ctx, event)
	if err != nil && (ctx.Err() != nil || errors.Is(err, context.Canceled)) {
		// остановка посреди обработки: не ACK, сообщение останется в PEL и
		// будет перехвачено через PendingClaimIdle
		logger.Warn("Ingest interrupted, message left pending", zap.Error(err))
		return
	}

	done := domain.PlacesDoneEvent{RequestID: event.RequestID}
	if err != nil {
		logger.Error("Ingest failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		done.Error = err.Error()
		metrics.WorkerMessagesTotal.WithLabelValues(workerName, "error").Inc()
	} else {
		done.Received = result.Received
		done.Saved = result.Saved
		done.Skipped = result.Skipped
		metrics.WorkerMessagesTotal.WithLabelValues(workerName, "ok").Inc()
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamPlacesDone, done); err != nil {
		logger.Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}

	w.ack(ctx, msg.ID)
}

// process runs the event, retrying commit failures up to maxRetries times.
func (w *IngestionWorker) process(ctx context.Context, event *domain.PlacesIngestEvent) (*usecase.IngestResult, error) {
	var (
		result *usecase.IngestResult
		err    error
	)

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.Logger().Warn("Retrying ingest",
				zap.String("request_id", event.RequestID.String()),
				zap.Int("attempt", attempt))
			if !w.Sleep(ctx, time.Duration(attempt)*retryBackoff) {
				return nil, context.Canceled
			}
		}

		if event.Sync != nil {
			result, err = w.ingester.SyncNearby(ctx, *event.Sync)
		} else {
			result, err = w.ingester.Ingest(ctx, event.Places)
		}

		if err == nil || !retryable(err) {
			return result, err
		}
	}

	return nil, err
}

func (w *IngestionWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamPlacesIngest, w.ConsumerGroup(), id); err != nil {
		// не критично - сообщение будет переобработано
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}

func retryable(err error) bool {
	return errors.Is(err, errors.ErrStorageWrite) || errors.Is(err, errors.ErrPlacesUnavailable)
}

// parseMessage парсит сообщение из стрима в PlacesIngestEvent
func parseMessage(msg domain.StreamMessage) (*domain.PlacesIngestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.PlacesIngestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Sync == nil && len(event.Places) == 0 {
		return nil, fmt.Errorf("event carries neither places nor sync request")
	}

	return &event, nil
}
