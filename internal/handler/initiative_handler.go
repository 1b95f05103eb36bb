package handler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/middleware"
	"okr-dashboard/internal/models"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
	"okr-dashboard/internal/worker"
)

type InitiativeHandler struct {
	initiativeRepo *repository.InitiativeRepository
	areaRepo       *repository.AreaRepository
	excelService   *service.ExcelService
	asynqClient    *asynq.Client
	cfg            *config.Config
}

func NewInitiativeHandler(
	initiativeRepo *repository.InitiativeRepository,
	areaRepo *repository.AreaRepository,
	excelService *service.ExcelService,
	asynqClient *asynq.Client,
	cfg *config.Config,
) *InitiativeHandler {
	return &InitiativeHandler{
		initiativeRepo: initiativeRepo,
		areaRepo:       areaRepo,
		excelService:   excelService,
		asynqClient:    asynqClient,
		cfg:            cfg,
	}
}

// enqueueSnapshotRefresh schedules a KPI snapshot rebuild after a write.
// Best effort: without Redis the dashboards just use the fallback path.
func (h *InitiativeHandler) enqueueSnapshotRefresh(tenantID int) {
	if h.asynqClient == nil {
		return
	}
	payload, _ := json.Marshal(worker.KPIRefreshPayload{TenantID: tenantID})
	if _, err := h.asynqClient.Enqueue(asynq.NewTask(worker.TypeKPIRefresh, payload), asynq.Queue("low")); err != nil {
		utils.GetLogger().WithError(err).Warn("failed to enqueue KPI refresh")
	}
}

func (h *InitiativeHandler) List(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Managers only see their own area.
	areaID := middleware.AreaID(c)
	if middleware.Role(c) != "manager" {
		areaID = nil
	}
	if queryArea := c.QueryInt("area_id", 0); queryArea > 0 && areaID == nil {
		areaID = &queryArea
	}

	initiatives, total, err := h.initiativeRepo.FindAll(tenantID, areaID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve initiatives", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Initiatives retrieved successfully", fiber.Map{
		"initiatives": initiatives,
	}, pagination)
}

func (h *InitiativeHandler) Get(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}

	initiative, err := h.initiativeRepo.FindByID(tenantID, id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Initiative not found", err)
	}

	activities, err := h.initiativeRepo.GetActivities(initiative.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve activities", err)
	}

	return utils.SuccessResponse(c, "Initiative retrieved successfully", fiber.Map{
		"initiative":        initiative,
		"activities":        activities,
		"computed_progress": service.CalculateProgressByMethod(*initiative, activities),
		"data_issues":       service.ValidateKPIData(*initiative, activities),
	})
}

func (h *InitiativeHandler) Create(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	var req models.InitiativeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ObjectiveTitle == "" || req.Title == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Objective and title are required", nil)
	}

	initiative, err := h.initiativeFromRequest(tenantID, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if err := h.initiativeRepo.Create(initiative); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create initiative", err)
	}
	h.enqueueSnapshotRefresh(tenantID)

	return utils.SuccessResponse(c, "Initiative created successfully", initiative)
}

func (h *InitiativeHandler) Update(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}

	if _, err := h.initiativeRepo.FindByID(tenantID, id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Initiative not found", err)
	}

	var req models.InitiativeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	initiative, err := h.initiativeFromRequest(tenantID, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	initiative.ID = id

	if err := h.initiativeRepo.Update(initiative); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update initiative", err)
	}
	h.enqueueSnapshotRefresh(tenantID)

	return utils.SuccessResponse(c, "Initiative updated successfully", initiative)
}

func (h *InitiativeHandler) Delete(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}

	if err := h.initiativeRepo.Delete(tenantID, id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete initiative", err)
	}
	h.enqueueSnapshotRefresh(tenantID)

	return utils.SuccessResponse(c, "Initiative deleted successfully", nil)
}

func (h *InitiativeHandler) CreateActivity(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	initiativeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}

	if _, err := h.initiativeRepo.FindByID(tenantID, initiativeID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Initiative not found", err)
	}

	var req models.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Title == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Title is required", nil)
	}

	activity := &models.Activity{
		InitiativeID:     initiativeID,
		Title:            req.Title,
		IsCompleted:      req.IsCompleted,
		WeightPercentage: req.WeightPercentage,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid due date, expected yyyy-MM-dd", err)
		}
		activity.DueDate = &due
	}

	if err := h.initiativeRepo.CreateActivity(activity); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create activity", err)
	}

	return utils.SuccessResponse(c, "Activity created successfully", activity)
}

func (h *InitiativeHandler) UpdateActivity(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	initiativeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}
	activityID, err := strconv.Atoi(c.Params("activityId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid activity ID", err)
	}

	if _, err := h.initiativeRepo.FindByID(tenantID, initiativeID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Initiative not found", err)
	}

	var req models.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	activity := &models.Activity{
		ID:               activityID,
		InitiativeID:     initiativeID,
		Title:            req.Title,
		IsCompleted:      req.IsCompleted,
		WeightPercentage: req.WeightPercentage,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid due date, expected yyyy-MM-dd", err)
		}
		activity.DueDate = &due
	}

	if err := h.initiativeRepo.UpdateActivity(activity); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update activity", err)
	}

	return utils.SuccessResponse(c, "Activity updated successfully", activity)
}

func (h *InitiativeHandler) DeleteActivity(c *fiber.Ctx) error {
	initiativeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid initiative ID", err)
	}
	activityID, err := strconv.Atoi(c.Params("activityId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid activity ID", err)
	}

	if err := h.initiativeRepo.DeleteActivity(initiativeID, activityID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete activity", err)
	}

	return utils.SuccessResponse(c, "Activity deleted successfully", nil)
}

func (h *InitiativeHandler) Export(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)

	initiatives, err := h.initiativeRepo.GetByTenant(tenantID, models.KPIFilters{})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve initiatives", err)
	}

	areas, err := h.areaRepo.GetActive(tenantID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve areas", err)
	}
	areaNames := make(map[int]string, len(areas))
	for _, area := range areas {
		areaNames[area.ID] = area.Name
	}

	exportFileName := fmt.Sprintf("iniciativas_%s.xlsx", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportInitiatives(initiatives, areaNames, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export initiatives", err)
	}

	return c.Download(exportPath, exportFileName)
}

// initiativeFromRequest maps and normalizes the request payload, reusing
// the import validators so form input and spreadsheet input share
// identical coercion rules.
func (h *InitiativeHandler) initiativeFromRequest(tenantID int, req models.InitiativeRequest) (*models.Initiative, error) {
	status, _ := service.ValidateStatus(req.Status)
	priority, _ := service.ValidatePriority(req.Priority)

	progress := req.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	method := req.ProgressMethod
	switch method {
	case models.ProgressMethodManual, models.ProgressMethodSubtaskBased, models.ProgressMethodHybrid:
	case "":
		method = models.ProgressMethodManual
	default:
		return nil, fmt.Errorf("unknown progress method %q", method)
	}

	weight := req.WeightFactor
	if weight == 0 {
		weight = 1.0
	}

	initiative := &models.Initiative{
		TenantID:       tenantID,
		AreaID:         req.AreaID,
		ObjectiveTitle: req.ObjectiveTitle,
		Title:          req.Title,
		Description:    req.Description,
		Owner:          req.Owner,
		Progress:       progress,
		Status:         status,
		Priority:       priority,
		ProgressMethod: method,
		WeightFactor:   weight,
		IsStrategic:    req.IsStrategic,
		Budget:         req.Budget,
		ActualCost:     req.ActualCost,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date, expected yyyy-MM-dd")
		}
		initiative.StartDate = &start
	}
	if req.TargetDate != "" {
		target, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("invalid target date, expected yyyy-MM-dd")
		}
		initiative.TargetDate = &target
	}
	if initiative.StartDate != nil && initiative.TargetDate != nil &&
		initiative.StartDate.After(*initiative.TargetDate) {
		return nil, fmt.Errorf("start date is after target date")
	}

	return initiative, nil
}
