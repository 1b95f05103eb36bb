package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"okr-dashboard/internal/models"
)

// SnapshotSource reads precomputed aggregate rows (kpi_snapshots),
// refreshed by the background worker.
type SnapshotSource interface {
	GetTenantSnapshot(tenantID int) (*models.KPISnapshot, error)
	GetAreaSnapshots(tenantID int) ([]models.KPISnapshot, error)
	GetStrategicSnapshot(tenantID int) (*models.KPISnapshot, error)
}

// InitiativeSource fetches raw initiative records for the fallback path.
type InitiativeSource interface {
	GetByTenant(tenantID int, filters models.KPIFilters) ([]models.Initiative, error)
}

// AreaSource lists a tenant's active areas.
type AreaSource interface {
	GetActive(tenantID int) ([]models.Area, error)
}

// KPIService serves dashboard aggregates. The primary path reads snapshot
// rows; on any fetch error it falls back to recomputing the same numbers
// from the raw initiative list. Both paths are numerically consistent for
// the same input set.
type KPIService struct {
	snapshots   SnapshotSource
	initiatives InitiativeSource
	areas       AreaSource
	log         *logrus.Logger

	now func() time.Time
}

func NewKPIService(snapshots SnapshotSource, initiatives InitiativeSource, areas AreaSource, log *logrus.Logger) *KPIService {
	return &KPIService{
		snapshots:   snapshots,
		initiatives: initiatives,
		areas:       areas,
		log:         log,
		now:         time.Now,
	}
}

// GetKPISummary computes the tenant-level summary. Managers are scoped to
// their own area. Snapshots only cover the unfiltered tenant view, so any
// filter or area scope goes straight to the raw computation.
func (s *KPIService) GetKPISummary(tenantID int, filters models.KPIFilters, role string, areaID *int) (models.KPISummary, error) {
	if role == "manager" && areaID != nil {
		filters.AreaID = areaID
	}

	if filters == (models.KPIFilters{}) {
		snapshot, err := s.snapshots.GetTenantSnapshot(tenantID)
		if err == nil && snapshot != nil {
			return summaryFromSnapshot(*snapshot), nil
		}
		if err != nil {
			s.log.WithError(err).WithField("tenant_id", tenantID).
				Warn("snapshot fetch failed, recomputing KPI summary from raw initiatives")
		}
	}

	initiatives, err := s.initiatives.GetByTenant(tenantID, filters)
	if err != nil {
		return models.KPISummary{}, err
	}
	return BuildKPISummary(initiatives, s.now()), nil
}

// GetAreaKPIMetrics returns one metrics row per area. Managers only see
// their own area.
func (s *KPIService) GetAreaKPIMetrics(tenantID int, role string, areaID *int) ([]models.AreaKPIMetrics, error) {
	metrics, err := s.areaMetricsFromSnapshots(tenantID)
	if err != nil {
		s.log.WithError(err).WithField("tenant_id", tenantID).
			Warn("area snapshot fetch failed, recomputing area metrics from raw initiatives")
		metrics, err = s.areaMetricsFromRaw(tenantID)
		if err != nil {
			return nil, err
		}
	}

	if role == "manager" && areaID != nil {
		scoped := metrics[:0]
		for _, m := range metrics {
			if m.AreaID == *areaID {
				scoped = append(scoped, m)
			}
		}
		metrics = scoped
	}
	return metrics, nil
}

// GetStrategicMetrics aggregates the strategic subset. The critical
// initiative list always comes from raw records; the counters prefer the
// snapshot when available.
func (s *KPIService) GetStrategicMetrics(tenantID int) (models.StrategicMetrics, error) {
	strategic, err := s.initiatives.GetByTenant(tenantID, models.KPIFilters{StrategicOnly: true})
	if err != nil {
		return models.StrategicMetrics{}, err
	}

	critical := CriticalStrategicInitiatives(strategic, s.now())
	metrics := models.StrategicMetrics{
		CriticalCount:       len(critical),
		CriticalInitiatives: critical,
	}

	snapshot, snapErr := s.snapshots.GetStrategicSnapshot(tenantID)
	if snapErr == nil && snapshot != nil {
		metrics.StrategicCount = snapshot.StrategicCount
		metrics.CompletedCount = snapshot.CompletedInitiatives
		metrics.AverageProgress = snapshot.StrategicProgress
		metrics.TotalWeight = snapshot.StrategicWeight
		return metrics, nil
	}
	if snapErr != nil {
		s.log.WithError(snapErr).WithField("tenant_id", tenantID).
			Warn("strategic snapshot fetch failed, recomputing from raw initiatives")
	}

	metrics.StrategicCount = len(strategic)
	metrics.AverageProgress = CalculateWeightedProgress(strategic)
	for _, initiative := range strategic {
		metrics.TotalWeight += initiative.WeightFactor
		if initiative.Status == models.StatusCompleted {
			metrics.CompletedCount++
		}
	}
	return metrics, nil
}

// ComputeSnapshots derives the full snapshot set (tenant, per-area,
// strategic) from raw records. The worker persists the result after every
// import commit.
func (s *KPIService) ComputeSnapshots(tenantID int) ([]models.KPISnapshot, error) {
	initiatives, err := s.initiatives.GetByTenant(tenantID, models.KPIFilters{})
	if err != nil {
		return nil, err
	}
	areas, err := s.areas.GetActive(tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var snapshots []models.KPISnapshot

	tenantSummary := BuildKPISummary(initiatives, now)
	snapshots = append(snapshots, snapshotFromSummary(tenantID, "tenant", nil, "", tenantSummary, now))

	for _, area := range areas {
		areaID := area.ID
		var scoped []models.Initiative
		for _, initiative := range initiatives {
			if initiative.AreaID != nil && *initiative.AreaID == areaID {
				scoped = append(scoped, initiative)
			}
		}
		summary := BuildKPISummary(scoped, now)
		snapshots = append(snapshots, snapshotFromSummary(tenantID, "area", &areaID, area.Name, summary, now))
	}

	var strategic []models.Initiative
	for _, initiative := range initiatives {
		if initiative.IsStrategic {
			strategic = append(strategic, initiative)
		}
	}
	strategicSummary := BuildKPISummary(strategic, now)
	snapshots = append(snapshots, snapshotFromSummary(tenantID, "strategic", nil, "", strategicSummary, now))

	return snapshots, nil
}

// BuildKPISummary recomputes the full summary from a raw initiative list
// using the pure calculator functions. This is the fallback path and the
// source of truth the snapshot writer uses.
func BuildKPISummary(initiatives []models.Initiative, now time.Time) models.KPISummary {
	summary := models.KPISummary{
		TotalInitiatives: len(initiatives),
		AverageProgress:  CalculateWeightedProgress(initiatives),
	}

	var strategic []models.Initiative
	for _, initiative := range initiatives {
		if initiative.Status == models.StatusCompleted {
			summary.CompletedInitiatives++
		}
		if IsOverdue(initiative, now) {
			summary.OverdueInitiatives++
		}
		if initiative.IsStrategic {
			strategic = append(strategic, initiative)
			summary.StrategicWeight += initiative.WeightFactor
		}
		if initiative.Budget != nil {
			summary.TotalBudget += *initiative.Budget
		}
		if initiative.ActualCost != nil {
			summary.TotalActualCost += *initiative.ActualCost
		}
	}

	summary.StrategicCount = len(strategic)
	summary.StrategicProgress = CalculateWeightedProgress(strategic)
	summary.BudgetUtilization = CalculateBudgetUtilization(summary.TotalBudget, summary.TotalActualCost)
	return summary
}

func (s *KPIService) areaMetricsFromSnapshots(tenantID int) ([]models.AreaKPIMetrics, error) {
	snapshots, err := s.snapshots.GetAreaSnapshots(tenantID)
	if err != nil {
		return nil, err
	}
	metrics := make([]models.AreaKPIMetrics, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.AreaID == nil {
			continue
		}
		metrics = append(metrics, models.AreaKPIMetrics{
			AreaID:               *snapshot.AreaID,
			AreaName:             snapshot.AreaName,
			TotalInitiatives:     snapshot.TotalInitiatives,
			CompletedInitiatives: snapshot.CompletedInitiatives,
			AverageProgress:      snapshot.AverageProgress,
			OverdueInitiatives:   snapshot.OverdueInitiatives,
		})
	}
	return metrics, nil
}

func (s *KPIService) areaMetricsFromRaw(tenantID int) ([]models.AreaKPIMetrics, error) {
	areas, err := s.areas.GetActive(tenantID)
	if err != nil {
		return nil, err
	}
	initiatives, err := s.initiatives.GetByTenant(tenantID, models.KPIFilters{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	metrics := make([]models.AreaKPIMetrics, 0, len(areas))
	for _, area := range areas {
		var scoped []models.Initiative
		for _, initiative := range initiatives {
			if initiative.AreaID != nil && *initiative.AreaID == area.ID {
				scoped = append(scoped, initiative)
			}
		}
		summary := BuildKPISummary(scoped, now)
		metrics = append(metrics, models.AreaKPIMetrics{
			AreaID:               area.ID,
			AreaName:             area.Name,
			TotalInitiatives:     summary.TotalInitiatives,
			CompletedInitiatives: summary.CompletedInitiatives,
			AverageProgress:      summary.AverageProgress,
			OverdueInitiatives:   summary.OverdueInitiatives,
		})
	}
	return metrics, nil
}

func summaryFromSnapshot(snapshot models.KPISnapshot) models.KPISummary {
	return models.KPISummary{
		TotalInitiatives:     snapshot.TotalInitiatives,
		CompletedInitiatives: snapshot.CompletedInitiatives,
		AverageProgress:      snapshot.AverageProgress,
		OverdueInitiatives:   snapshot.OverdueInitiatives,
		StrategicCount:       snapshot.StrategicCount,
		StrategicProgress:    snapshot.StrategicProgress,
		StrategicWeight:      snapshot.StrategicWeight,
		TotalBudget:          snapshot.TotalBudget,
		TotalActualCost:      snapshot.TotalActualCost,
		BudgetUtilization:    CalculateBudgetUtilization(snapshot.TotalBudget, snapshot.TotalActualCost),
	}
}

func snapshotFromSummary(tenantID int, scope string, areaID *int, areaName string, summary models.KPISummary, computedAt time.Time) models.KPISnapshot {
	return models.KPISnapshot{
		TenantID:             tenantID,
		Scope:                scope,
		AreaID:               areaID,
		AreaName:             areaName,
		TotalInitiatives:     summary.TotalInitiatives,
		CompletedInitiatives: summary.CompletedInitiatives,
		AverageProgress:      summary.AverageProgress,
		OverdueInitiatives:   summary.OverdueInitiatives,
		StrategicCount:       summary.StrategicCount,
		StrategicProgress:    summary.StrategicProgress,
		StrategicWeight:      summary.StrategicWeight,
		TotalBudget:          summary.TotalBudget,
		TotalActualCost:      summary.TotalActualCost,
		ComputedAt:           computedAt,
	}
}
