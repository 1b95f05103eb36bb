package handler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/middleware"
	"okr-dashboard/internal/models"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
	"okr-dashboard/internal/worker"
)

type ImportHandler struct {
	importRepo   *repository.ImportRepository
	areaRepo     *repository.AreaRepository
	excelService *service.ExcelService
	asynqClient  *asynq.Client
	redis        *redis.Client
	cfg          *config.Config
}

func NewImportHandler(
	importRepo *repository.ImportRepository,
	areaRepo *repository.AreaRepository,
	excelService *service.ExcelService,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importRepo:   importRepo,
		areaRepo:     areaRepo,
		excelService: excelService,
		asynqClient:  asynqClient,
		redis:        redisClient,
		cfg:          cfg,
	}
}

func (h *ImportHandler) UploadFile(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	userID := c.Locals("user_id").(int)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}

	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	sessionCode := fmt.Sprintf("IMPORT-%s", uuid.New().String()[:8])

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", sessionCode, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	rows, err := h.excelService.ParseImportFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	result, err := h.validateRows(tenantID, rows)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate file", err)
	}

	totalRows := len(rows)
	if totalRows > 0 {
		totalRows-- // header row
	}

	session := &models.ImportSession{
		SessionCode:  sessionCode,
		TenantID:     tenantID,
		UserID:       userID,
		Filename:     file.Filename,
		FilePath:     filePath,
		TotalRows:    totalRows,
		ValidRows:    len(result.ProcessedData),
		ErrorCount:   len(result.Errors),
		WarningCount: len(result.Warnings),
		Status:       "uploaded",
	}
	if !result.IsValid {
		session.Status = "failed"
		session.ErrorMessage = "validation failed"
	}

	if err := h.importRepo.CreateSession(session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import session", err)
	}

	if !result.IsValid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success":    false,
			"message":    "File validation failed",
			"session":    session,
			"validation": result,
		})
	}

	// Stage the normalized rows in batches for the background commit.
	batchSize := h.cfg.BatchSize
	staged := stagedRowsFromResult(session.ID, result.ProcessedData)
	for i := 0; i < len(staged); i += batchSize {
		end := i + batchSize
		if end > len(staged) {
			end = len(staged)
		}
		if err := h.importRepo.BulkInsertStagedRows(staged[i:end]); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stage import rows", err)
		}
	}

	return utils.SuccessResponse(c, "File uploaded successfully", fiber.Map{
		"session":    session,
		"validation": result,
		"preview":    previewRows(result.ProcessedData, 10),
	})
}

func (h *ImportHandler) GetSessions(c *fiber.Ctx) error {
	tenantID := middleware.TenantID(c)
	userID := c.Locals("user_id").(int)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Admins see the whole tenant; everyone else only their own uploads.
	filterUserID := 0
	if middleware.Role(c) != "admin" {
		filterUserID = userID
	}

	sessions, total, err := h.importRepo.GetSessions(tenantID, params.Limit, offset, filterUserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sessions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Sessions retrieved successfully", fiber.Map{
		"sessions": sessions,
	}, pagination)
}

func (h *ImportHandler) GetSessionDetail(c *fiber.Ctx) error {
	session, err := h.sessionForTenant(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	detail := fiber.Map{"session": session}
	if session.Status == "processing" && h.redis != nil {
		progressKey := fmt.Sprintf("import:progress:%d", session.ID)
		if progress, err := h.redis.Get(c.Context(), progressKey).Result(); err == nil {
			detail["progress"] = progress
		}
	}

	return utils.SuccessResponse(c, "Session retrieved successfully", detail)
}

// ProcessSession queues the background commit that turns staged rows into
// initiatives.
func (h *ImportHandler) ProcessSession(c *fiber.Ctx) error {
	session, err := h.sessionForTenant(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	if session.Status == "processing" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session is already being processed", nil)
	}
	if session.Status == "completed" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session is already completed", nil)
	}
	if session.Status == "failed" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session failed validation and cannot be processed", nil)
	}

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	if err := h.importRepo.UpdateSessionStatus(session.ID, "processing"); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update session status", err)
	}

	payload, _ := json.Marshal(worker.ImportCommitPayload{
		SessionID:   session.ID,
		SessionCode: session.SessionCode,
		TenantID:    session.TenantID,
	})

	task := asynq.NewTask(worker.TypeImportCommit, payload)
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import task", err)
	}

	return utils.SuccessResponse(c, "Import processing started", fiber.Map{
		"job_id":  info.ID,
		"session": session,
	})
}

// DownloadTemplate serves a fresh copy of the import template workbook.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	templatePath := filepath.Join(h.cfg.ExportPath, "plantilla_importacion.xlsx")
	if err := h.excelService.GenerateImportTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}
	return c.Download(templatePath, "plantilla_importacion.xlsx")
}

// DownloadErrorReport revalidates the stored upload and serves a workbook
// listing every error and warning.
func (h *ImportHandler) DownloadErrorReport(c *fiber.Ctx) error {
	session, err := h.sessionForTenant(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	rows, err := h.excelService.ParseImportFile(session.FilePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read uploaded file", err)
	}

	result, err := h.validateRows(session.TenantID, rows)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate file", err)
	}

	reportFileName := fmt.Sprintf("errores_%s.xlsx", session.SessionCode)
	reportPath := filepath.Join(h.cfg.ExportPath, reportFileName)
	if err := h.excelService.GenerateImportErrorReport(result, reportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate error report", err)
	}

	return c.Download(reportPath, reportFileName)
}

func (h *ImportHandler) validateRows(tenantID int, rows [][]string) (models.ValidationResult, error) {
	areas, err := h.areaRepo.GetActive(tenantID)
	if err != nil {
		return models.ValidationResult{}, err
	}
	validAreas := make([]string, 0, len(areas))
	for _, area := range areas {
		validAreas = append(validAreas, area.Name)
	}

	return service.ValidateFile(rows, service.ImportOptions{
		ValidAreas:  validAreas,
		RequireArea: len(validAreas) > 0,
		MaxRows:     h.cfg.ImportMaxRows,
	}), nil
}

func (h *ImportHandler) sessionForTenant(c *fiber.Ctx) (*models.ImportSession, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, err
	}
	session, err := h.importRepo.GetSessionByID(id)
	if err != nil {
		return nil, err
	}
	if session.TenantID != middleware.TenantID(c) {
		return nil, fmt.Errorf("session %d does not belong to tenant", id)
	}
	return session, nil
}

func stagedRowsFromResult(sessionID int, data []models.CanonicalRow) []models.StagedRow {
	staged := make([]models.StagedRow, 0, len(data))
	for i, row := range data {
		staged = append(staged, models.StagedRow{
			SessionID:   sessionID,
			RowNumber:   i + 1,
			Area:        row.Area,
			Objetivo:    row.Objetivo,
			Iniciativa:  row.Iniciativa,
			Progreso:    row.Progreso,
			Estado:      row.Estado,
			Prioridad:   row.Prioridad,
			FechaInicio: row.FechaInicio,
			FechaFin:    row.FechaFin,
			Descripcion: row.Descripcion,
			Responsable: row.Responsable,
			Estrategica: row.Estrategica,
		})
	}
	return staged
}

func previewRows(data []models.CanonicalRow, limit int) []models.CanonicalRow {
	if len(data) > limit {
		return data[:limit]
	}
	return data
}
