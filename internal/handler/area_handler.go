package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"okr-dashboard/internal/middleware"
	"okr-dashboard/internal/models"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/utils"
)

type AreaHandler struct {
	areaRepo *repository.AreaRepository
}

func NewAreaHandler(areaRepo *repository.AreaRepository) *AreaHandler {
	return &AreaHandler{areaRepo: areaRepo}
}

func (h *AreaHandler) List(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	areas, total, err := h.areaRepo.FindAll(tenantID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve areas", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Areas retrieved successfully", fiber.Map{
		"areas": areas,
	}, pagination)
}

func (h *AreaHandler) Get(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid area ID", err)
	}

	area, err := h.areaRepo.FindByID(tenantID, id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Area not found", err)
	}

	return utils.SuccessResponse(c, "Area retrieved successfully", area)
}

func (h *AreaHandler) Create(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	var req models.AreaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	area := &models.Area{
		TenantID:  tenantID,
		Name:      req.Name,
		ManagerID: req.ManagerID,
		IsActive:  true,
	}
	if err := h.areaRepo.Create(area); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create area", err)
	}

	return utils.SuccessResponse(c, "Area created successfully", area)
}

func (h *AreaHandler) Update(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid area ID", err)
	}

	area, err := h.areaRepo.FindByID(tenantID, id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Area not found", err)
	}

	var req models.AreaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	area.Name = req.Name
	area.ManagerID = req.ManagerID
	area.IsActive = req.IsActive

	if err := h.areaRepo.Update(area); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update area", err)
	}

	return utils.SuccessResponse(c, "Area updated successfully", area)
}

func (h *AreaHandler) Delete(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid area ID", err)
	}

	if err := h.areaRepo.Delete(tenantID, id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete area", err)
	}

	return utils.SuccessResponse(c, "Area deleted successfully", nil)
}
