package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
)

// KPIRefreshHandler recomputes and rewrites a tenant's KPI snapshot set.
// Enqueued on demand and on a periodic schedule so dashboards stay on the
// fast snapshot path even when initiatives are edited by hand.
type KPIRefreshHandler struct {
	kpiRepo    *repository.KPIRepository
	kpiService *service.KPIService
}

func NewKPIRefreshHandler(db *sqlx.DB, cfg *config.Config) *KPIRefreshHandler {
	initiativeRepo := repository.NewInitiativeRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	return &KPIRefreshHandler{
		kpiRepo:    kpiRepo,
		kpiService: service.NewKPIService(kpiRepo, initiativeRepo, areaRepo, utils.GetLogger()),
	}
}

func (h *KPIRefreshHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload KPIRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := utils.GetLogger().WithField("tenant_id", payload.TenantID)

	snapshots, err := h.kpiService.ComputeSnapshots(payload.TenantID)
	if err != nil {
		return fmt.Errorf("failed to compute snapshots: %w", err)
	}
	if err := h.kpiRepo.ReplaceSnapshots(payload.TenantID, snapshots); err != nil {
		return fmt.Errorf("failed to persist snapshots: %w", err)
	}

	log.WithField("snapshots", len(snapshots)).Info("KPI snapshots refreshed")
	return nil
}
