package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/models"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
)

// ImportCommitHandler turns the staged rows of an import session into
// initiative records, batch by batch, then refreshes the tenant's KPI
// snapshots.
type ImportCommitHandler struct {
	importRepo     *repository.ImportRepository
	initiativeRepo *repository.InitiativeRepository
	areaRepo       *repository.AreaRepository
	kpiRepo        *repository.KPIRepository
	kpiService     *service.KPIService
	redis          *redis.Client
	cfg            *config.Config
}

func NewImportCommitHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *ImportCommitHandler {
	importRepo := repository.NewImportRepository(db)
	initiativeRepo := repository.NewInitiativeRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	return &ImportCommitHandler{
		importRepo:     importRepo,
		initiativeRepo: initiativeRepo,
		areaRepo:       areaRepo,
		kpiRepo:        kpiRepo,
		kpiService:     service.NewKPIService(kpiRepo, initiativeRepo, areaRepo, utils.GetLogger()),
		redis:          redisClient,
		cfg:            cfg,
	}
}

func (h *ImportCommitHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ImportCommitPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := utils.GetLogger().WithField("session_code", payload.SessionCode)
	log.Info("starting import commit")

	session, err := h.importRepo.GetSessionByID(payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status == "completed" || session.Status == "failed" {
		log.WithField("status", session.Status).Info("session already finished, skipping")
		return nil
	}

	areaIDs, err := h.areaIDsByName(session.TenantID)
	if err != nil {
		h.failSession(session, fmt.Sprintf("failed to load areas: %v", err))
		return fmt.Errorf("failed to load areas: %w", err)
	}

	batchSize := h.cfg.BatchSize
	totalCommitted := 0

	for {
		rows, err := h.importRepo.GetUncommittedRows(session.ID, batchSize)
		if err != nil {
			h.failSession(session, fmt.Sprintf("failed to read staged rows: %v", err))
			return fmt.Errorf("failed to read staged rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		initiatives := make([]models.Initiative, 0, len(rows))
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			initiatives = append(initiatives, initiativeFromStagedRow(session.TenantID, row, areaIDs))
			ids = append(ids, row.ID)
		}

		if err := h.initiativeRepo.BulkInsert(initiatives); err != nil {
			h.failSession(session, fmt.Sprintf("failed to insert initiatives: %v", err))
			return fmt.Errorf("failed to insert initiatives: %w", err)
		}
		if err := h.importRepo.MarkRowsCommitted(ids); err != nil {
			h.failSession(session, fmt.Sprintf("failed to mark rows committed: %v", err))
			return fmt.Errorf("failed to mark rows committed: %w", err)
		}

		totalCommitted += len(rows)
		session.ProcessedRows = totalCommitted
		if err := h.importRepo.UpdateSession(session); err != nil {
			log.WithError(err).Warn("failed to update session progress")
		}

		h.publishProgress(ctx, session.ID, totalCommitted, session.ValidRows)
		log.WithFields(map[string]interface{}{
			"committed": totalCommitted,
			"total":     session.ValidRows,
		}).Info("committed batch")
	}

	session.ProcessedRows = totalCommitted
	session.Status = "completed"
	if err := h.importRepo.UpdateSession(session); err != nil {
		log.WithError(err).Error("failed to mark session completed")
	}
	h.publishProgress(ctx, session.ID, totalCommitted, session.ValidRows)

	if err := h.refreshSnapshots(session.TenantID); err != nil {
		// The import itself succeeded; dashboards fall back to raw
		// computation until the next refresh.
		log.WithError(err).Warn("failed to refresh KPI snapshots after import")
	}

	log.WithField("committed", totalCommitted).Info("import commit finished")
	return nil
}

func (h *ImportCommitHandler) areaIDsByName(tenantID int) (map[string]int, error) {
	areas, err := h.areaRepo.GetActive(tenantID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(areas))
	for _, area := range areas {
		byName[area.Name] = area.ID
	}
	return byName, nil
}

func (h *ImportCommitHandler) refreshSnapshots(tenantID int) error {
	snapshots, err := h.kpiService.ComputeSnapshots(tenantID)
	if err != nil {
		return err
	}
	return h.kpiRepo.ReplaceSnapshots(tenantID, snapshots)
}

func (h *ImportCommitHandler) publishProgress(ctx context.Context, sessionID, committed, total int) {
	if h.redis == nil || total == 0 {
		return
	}
	progressKey := fmt.Sprintf("import:progress:%d", sessionID)
	progress := float64(committed) / float64(total) * 100
	h.redis.Set(ctx, progressKey, fmt.Sprintf("%.2f", progress), time.Hour)
}

func (h *ImportCommitHandler) failSession(session *models.ImportSession, message string) {
	session.Status = "failed"
	session.ErrorMessage = message
	if err := h.importRepo.UpdateSession(session); err != nil {
		utils.GetLogger().WithError(err).Error("failed to mark session failed")
	}
}

// initiativeFromStagedRow maps one staged import row onto the initiative
// model. Dates arrive as yyyy-MM-dd strings (already validated); an area
// name that no longer resolves leaves AreaID nil rather than failing the
// whole batch.
func initiativeFromStagedRow(tenantID int, row models.StagedRow, areaIDs map[string]int) models.Initiative {
	initiative := models.Initiative{
		TenantID:       tenantID,
		ObjectiveTitle: row.Objetivo,
		Title:          row.Iniciativa,
		Description:    row.Descripcion,
		Owner:          row.Responsable,
		Progress:       row.Progreso,
		Status:         row.Estado,
		Priority:       row.Prioridad,
		ProgressMethod: models.ProgressMethodManual,
		WeightFactor:   1.0,
		IsStrategic:    row.Estrategica,
	}

	if id, ok := areaIDs[row.Area]; ok {
		areaID := id
		initiative.AreaID = &areaID
	}
	if row.FechaInicio != "" {
		if t, err := time.Parse("2006-01-02", row.FechaInicio); err == nil {
			initiative.StartDate = &t
		}
	}
	if row.FechaFin != "" {
		if t, err := time.Parse("2006-01-02", row.FechaFin); err == nil {
			initiative.TargetDate = &t
		}
	}

	return initiative
}
