package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/pkg/utils"
	"github.com/resource-store/internal/pkg/validator"
	"github.com/resource-store/internal/usecase"
	"github.com/resource-store/internal/usecase/dto"
)

// IngestHandler - импорт мест провайдера, синхронно или через очередь
type IngestHandler struct {
	ingestionUC *usecase.IngestionUseCase
	streamRepo  repository.StreamRepository
	logger      *zap.Logger
}

// NewIngestHandler - создание нового IngestHandler. streamRepo may be nil,
// async requests are then rejected.
func NewIngestHandler(
	ingestionUC *usecase.IngestionUseCase,
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
) *IngestHandler {
	return &IngestHandler{
		ingestionUC: ingestionUC,
		streamRepo:  streamRepo,
		logger:      logger,
	}
}

// IngestPlaces godoc
// @Summary Импорт мест провайдера
// @Description Маппит места в ресурсы и делает upsert по внешнему ID. Немаппируемые записи пропускаются с причиной. async=true ставит пакет в очередь.
// @Tags Ingest
// @Accept json
// @Produce json
// @Param request body dto.IngestPlacesRequest true "Места"
// @Success 200 {object} utils.SuccessResponse{data=dto.IngestResponse}
// @Success 202 {object} utils.SuccessResponse{data=dto.IngestResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/ingest/places [post]
func (h *IngestHandler) IngestPlaces(c *fiber.Ctx) error {
	var req dto.IngestPlacesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if req.Async {
		return h.enqueue(c, domain.PlacesIngestEvent{
			RequestID: uuid.New(),
			Source:    "api",
			Places:    req.Places,
		}, len(req.Places))
	}

	result, err := h.ingestionUC.Ingest(c.UserContext(), req.Places)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, toIngestResponse(result), nil)
}

// Sync godoc
// @Summary Выборка мест у провайдера и импорт
// @Description Запрашивает места вокруг точки и импортирует их. 503, если ключ провайдера не настроен.
// @Tags Ingest
// @Accept json
// @Produce json
// @Param request body dto.SyncRequest true "Центр и фильтры"
// @Success 200 {object} utils.SuccessResponse{data=dto.IngestResponse}
// @Success 202 {object} utils.SuccessResponse{data=dto.IngestResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/ingest/sync [post]
func (h *IngestHandler) Sync(c *fiber.Ctx) error {
	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if !h.ingestionUC.PlacesConfigured() {
		return utils.SendError(c, errors.ErrPlacesNotConfigured)
	}

	sync := req.ToDomain()
	if req.Async {
		return h.enqueue(c, domain.PlacesIngestEvent{
			RequestID: uuid.New(),
			Source:    "api",
			Sync:      &sync,
		}, 0)
	}

	result, err := h.ingestionUC.SyncNearby(c.UserContext(), sync)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, toIngestResponse(result), nil)
}

func (h *IngestHandler) enqueue(c *fiber.Ctx, event domain.PlacesIngestEvent, received int) error {
	if h.streamRepo == nil {
		return utils.SendError(c, errors.ErrQueueUnavailable)
	}

	if err := h.streamRepo.PublishToStream(c.UserContext(), domain.StreamPlacesIngest, event); err != nil {
		h.logger.Error("Failed to publish ingest event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		return utils.SendError(c, errors.ErrQueueUnavailable.Wrap(err))
	}

	h.logger.Info("Ingest event queued",
		zap.String("request_id", event.RequestID.String()),
		zap.Int("places", received),
		zap.Bool("sync", event.Sync != nil))

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{
		Data: dto.IngestResponse{
			RequestID: event.RequestID.String(),
			Queued:    true,
			Received:  received,
		},
	})
}

func toIngestResponse(result *usecase.IngestResult) dto.IngestResponse {
	return dto.IngestResponse{
		Received: result.Received,
		Saved:    result.Saved,
		Skipped:  result.Skipped,
	}
}
