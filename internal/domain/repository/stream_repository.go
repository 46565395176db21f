package repository

import (
	"context"
	"time"

	"github.com/resource-store/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// ConsumeBatch reads up to count never-delivered messages for the group,
	// blocking briefly when the stream is empty.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error)

	// ClaimPending забирает на consumer сообщения, которые висят в PEL
	// группы без ACK дольше minIdle (упавший или остановленный consumer).
	ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error)

	// AckMessage подтверждает обработку сообщения
	AckMessage(ctx context.Context, stream, group, messageID string) error

	AckMessages(ctx context.Context, stream, group string, messageIDs ...string) error

	// CreateConsumerGroup создаёт consumer group
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
