package handler

import (
	"github.com/gofiber/fiber/v2"

	"okr-dashboard/internal/middleware"
	"okr-dashboard/internal/models"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
)

type KPIHandler struct {
	kpiService *service.KPIService
}

func NewKPIHandler(kpiService *service.KPIService) *KPIHandler {
	return &KPIHandler{kpiService: kpiService}
}

func (h *KPIHandler) GetSummary(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	filters := models.KPIFilters{
		Status:        c.Query("status"),
		Priority:      c.Query("priority"),
		StrategicOnly: c.QueryBool("strategic_only"),
	}
	if areaID := c.QueryInt("area_id", 0); areaID > 0 {
		filters.AreaID = &areaID
	}

	summary, err := h.kpiService.GetKPISummary(tenantID, filters, middleware.Role(c), middleware.AreaID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute KPI summary", err)
	}

	return utils.SuccessResponse(c, "KPI summary retrieved successfully", summary)
}

func (h *KPIHandler) GetAreaMetrics(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	metrics, err := h.kpiService.GetAreaKPIMetrics(tenantID, middleware.Role(c), middleware.AreaID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute area metrics", err)
	}

	return utils.SuccessResponse(c, "Area metrics retrieved successfully", fiber.Map{
		"areas": metrics,
	})
}

func (h *KPIHandler) GetStrategicMetrics(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	metrics, err := h.kpiService.GetStrategicMetrics(tenantID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute strategic metrics", err)
	}

	return utils.SuccessResponse(c, "Strategic metrics retrieved successfully", metrics)
}
