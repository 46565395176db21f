package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/pkg/utils"
	"github.com/resource-store/internal/pkg/validator"
	"github.com/resource-store/internal/usecase"
	"github.com/resource-store/internal/usecase/dto"
)

// ResourceHandler - обработчик CRUD и поиска ресурсов
type ResourceHandler struct {
	resourceUC *usecase.ResourceUseCase
	logger     *zap.Logger
}

// NewResourceHandler - создание нового ResourceHandler
func NewResourceHandler(resourceUC *usecase.ResourceUseCase, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceUC: resourceUC,
		logger:     logger,
	}
}

// List godoc
// @Summary Список ресурсов
// @Description Возвращает все ресурсы, отсортированные по имени. С параметром q работает как текстовый поиск.
// @Tags Resources
// @Produce json
// @Param q query string false "Подстрока в name или description"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResourceListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources [get]
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	resources, err := h.resourceUC.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.NewResourceListResponse(resources)
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}

// Search godoc
// @Summary Текстовый поиск ресурсов
// @Description Регистронезависимый поиск подстроки по name и description. Пустой запрос возвращает все ресурсы.
// @Tags Resources
// @Produce json
// @Param q query string false "Поисковый запрос"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResourceListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources/search [get]
func (h *ResourceHandler) Search(c *fiber.Ctx) error {
	return h.List(c)
}

// Count - количество ресурсов
func (h *ResourceHandler) Count(c *fiber.Ctx) error {
	count, err := h.resourceUC.Count(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.CountResponse{Count: count}, nil)
}

// Nearby godoc
// @Summary Поиск ресурсов в радиусе
// @Description Ищет ресурсы внутри bounding box вокруг точки, с необязательным текстовым фильтром и типом. Каждый результат содержит расстояние до центра. exact=true отбрасывает углы box дальше радиуса.
// @Tags Resources
// @Accept json
// @Produce json
// @Param request body dto.NearbyRequest true "Центр, радиус и фильтры"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResourceListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources/nearby [post]
func (h *ResourceHandler) Nearby(c *fiber.Ctx) error {
	var req dto.NearbyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	resources, err := h.resourceUC.SearchNearby(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.NewResourceListResponse(resources)
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}

// Get godoc
// @Summary Ресурс по ID
// @Tags Resources
// @Produce json
// @Param id path string true "ID ресурса"
// @Success 200 {object} utils.SuccessResponse{data=domain.Resource}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/resources/{id} [get]
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	r, err := h.resourceUC.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, r, nil)
}

func (h *ResourceHandler) Exists(c *fiber.Ctx) error {
	id := c.Params("id")
	exists, err := h.resourceUC.Exists(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ExistsResponse{ID: id, Exists: exists}, nil)
}

// Create godoc
// @Summary Создание или замена ресурса
// @Description Upsert по ID. Без ID назначается UUID. created_at существующей записи сохраняется.
// @Tags Resources
// @Accept json
// @Produce json
// @Param request body dto.ResourceInput true "Ресурс"
// @Success 201 {object} utils.SuccessResponse{data=domain.Resource}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources [post]
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var req dto.ResourceInput
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	r := req.ToDomain()
	if err := h.resourceUC.Save(c.UserContext(), r); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, r)
}

// SaveAll godoc
// @Summary Пакетное сохранение
// @Description Все ресурсы сохраняются в одной транзакции. Одна невалидная запись отклоняет весь пакет.
// @Tags Resources
// @Accept json
// @Produce json
// @Param request body dto.SaveAllRequest true "Ресурсы"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResourceListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources/batch [put]
func (h *ResourceHandler) SaveAll(c *fiber.Ctx) error {
	var req dto.SaveAllRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	resources := make([]*domain.Resource, 0, len(req.Resources))
	for _, in := range req.Resources {
		resources = append(resources, in.ToDomain())
	}

	if err := h.resourceUC.SaveAll(c.UserContext(), resources); err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.NewResourceListResponse(resources)
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}

// Update godoc
// @Summary Частичное обновление ресурса
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "ID ресурса"
// @Param request body dto.UpdateResourceRequest true "Изменяемые поля"
// @Success 200 {object} utils.SuccessResponse{data=domain.Resource}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/resources/{id} [patch]
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	r, err := h.resourceUC.Update(c.UserContext(), c.Params("id"), req.Apply)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, r, nil)
}

// Delete - удаление ресурса, отсутствующий ID не ошибка
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.resourceUC.Delete(c.UserContext(), c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteByIDs - удаление набора ресурсов одной транзакцией
func (h *ResourceHandler) DeleteByIDs(c *fiber.Ctx) error {
	var req dto.DeleteByIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadBody(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.resourceUC.DeleteByIDs(c.UserContext(), req.IDs); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll godoc
// @Summary Удаление всех ресурсов
// @Tags Resources
// @Success 204
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/resources [delete]
func (h *ResourceHandler) DeleteAll(c *fiber.Ctx) error {
	if err := h.resourceUC.DeleteAll(c.UserContext()); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResourceTypes godoc
// @Summary Справочник типов ресурсов
// @Tags Resources
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ResourceTypesResponse}
// @Router /api/v1/resource-types [get]
func (h *ResourceHandler) ResourceTypes(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.resourceUC.ResourceTypes(), nil)
}
