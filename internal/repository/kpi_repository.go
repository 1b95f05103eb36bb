package repository

import (
	"github.com/jmoiron/sqlx"

	"okr-dashboard/internal/models"
)

// KPIRepository reads and rewrites the precomputed aggregate rows in
// kpi_snapshots. It is the primary source the KPI service consults before
// falling back to raw computation.
type KPIRepository struct {
	db *sqlx.DB
}

func NewKPIRepository(db *sqlx.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

const snapshotColumns = `
	id,
	tenant_id,
	scope,
	area_id,
	COALESCE(area_name, '') as area_name,
	total_initiatives,
	completed_initiatives,
	average_progress,
	overdue_initiatives,
	strategic_count,
	strategic_progress,
	strategic_weight,
	total_budget,
	total_actual_cost,
	computed_at`

func (r *KPIRepository) GetTenantSnapshot(tenantID int) (*models.KPISnapshot, error) {
	var snapshot models.KPISnapshot
	query := "SELECT " + snapshotColumns + " FROM kpi_snapshots WHERE tenant_id = ? AND scope = 'tenant' LIMIT 1"
	if err := r.db.Get(&snapshot, query, tenantID); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *KPIRepository) GetAreaSnapshots(tenantID int) ([]models.KPISnapshot, error) {
	var snapshots []models.KPISnapshot
	query := "SELECT " + snapshotColumns + " FROM kpi_snapshots WHERE tenant_id = ? AND scope = 'area' ORDER BY area_name"
	err := r.db.Select(&snapshots, query, tenantID)
	return snapshots, err
}

func (r *KPIRepository) GetStrategicSnapshot(tenantID int) (*models.KPISnapshot, error) {
	var snapshot models.KPISnapshot
	query := "SELECT " + snapshotColumns + " FROM kpi_snapshots WHERE tenant_id = ? AND scope = 'strategic' LIMIT 1"
	if err := r.db.Get(&snapshot, query, tenantID); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ReplaceSnapshots swaps a tenant's snapshot set atomically.
func (r *KPIRepository) ReplaceSnapshots(tenantID int, snapshots []models.KPISnapshot) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM kpi_snapshots WHERE tenant_id = ?", tenantID); err != nil {
		return err
	}

	query := `INSERT INTO kpi_snapshots
	          (tenant_id, scope, area_id, area_name, total_initiatives, completed_initiatives,
	           average_progress, overdue_initiatives, strategic_count, strategic_progress,
	           strategic_weight, total_budget, total_actual_cost, computed_at)
	          VALUES (:tenant_id, :scope, :area_id, :area_name, :total_initiatives, :completed_initiatives,
	           :average_progress, :overdue_initiatives, :strategic_count, :strategic_progress,
	           :strategic_weight, :total_budget, :total_actual_cost, :computed_at)`
	for _, snapshot := range snapshots {
		if _, err := tx.NamedExec(query, snapshot); err != nil {
			return err
		}
	}

	return tx.Commit()
}
