package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okr-dashboard/internal/models"
)

type stubSnapshots struct {
	tenant    *models.KPISnapshot
	areas     []models.KPISnapshot
	strategic *models.KPISnapshot
	err       error
}

func (s *stubSnapshots) GetTenantSnapshot(tenantID int) (*models.KPISnapshot, error) {
	return s.tenant, s.err
}

func (s *stubSnapshots) GetAreaSnapshots(tenantID int) ([]models.KPISnapshot, error) {
	return s.areas, s.err
}

func (s *stubSnapshots) GetStrategicSnapshot(tenantID int) (*models.KPISnapshot, error) {
	return s.strategic, s.err
}

type stubInitiatives struct {
	initiatives []models.Initiative
	lastFilters models.KPIFilters
	err         error
}

func (s *stubInitiatives) GetByTenant(tenantID int, filters models.KPIFilters) ([]models.Initiative, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}

	var matched []models.Initiative
	for _, initiative := range s.initiatives {
		if filters.AreaID != nil && (initiative.AreaID == nil || *initiative.AreaID != *filters.AreaID) {
			continue
		}
		if filters.Status != "" && initiative.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && initiative.Priority != filters.Priority {
			continue
		}
		if filters.StrategicOnly && !initiative.IsStrategic {
			continue
		}
		matched = append(matched, initiative)
	}
	return matched, nil
}

type stubAreas struct {
	areas []models.Area
	err   error
}

func (s *stubAreas) GetActive(tenantID int) ([]models.Area, error) {
	return s.areas, s.err
}

func testKPIService(snapshots SnapshotSource, initiatives InitiativeSource, areas AreaSource) *KPIService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewKPIService(snapshots, initiatives, areas, log)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func sampleInitiatives() []models.Initiative {
	area1, area2 := 1, 2
	overdue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	upcoming := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	return []models.Initiative{
		{
			AreaID: &area1, Progress: 100, WeightFactor: 1.0,
			Status: models.StatusCompleted, Priority: models.PriorityHigh,
			Budget: floatPtr(1000), ActualCost: floatPtr(900),
		},
		{
			AreaID: &area1, Progress: 30, WeightFactor: 3.0, IsStrategic: true,
			Status: models.StatusInProgress, Priority: models.PriorityHigh,
			TargetDate: &upcoming, Budget: floatPtr(2000), ActualCost: floatPtr(500),
		},
		{
			AreaID: &area2, Progress: 50, WeightFactor: 1.0,
			Status: models.StatusInProgress, Priority: models.PriorityLow,
			TargetDate: &overdue,
		},
	}
}

func TestGetKPISummaryPrefersSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	summary := BuildKPISummary(sampleInitiatives(), now)
	snapshot := snapshotFromSummary(1, "tenant", nil, "", summary, now)

	initiatives := &stubInitiatives{err: errors.New("raw path must not be used")}
	svc := testKPIService(&stubSnapshots{tenant: &snapshot}, initiatives, &stubAreas{})

	got, err := svc.GetKPISummary(1, models.KPIFilters{}, "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestGetKPISummaryFallsBackOnSnapshotError(t *testing.T) {
	raw := sampleInitiatives()
	svc := testKPIService(
		&stubSnapshots{err: errors.New("redis down")},
		&stubInitiatives{initiatives: raw},
		&stubAreas{},
	)

	got, err := svc.GetKPISummary(1, models.KPIFilters{}, "admin", nil)
	require.NoError(t, err)

	// The fallback recomputation must match what the snapshot would have
	// held for the same initiative set.
	expected := BuildKPISummary(raw, svc.now())
	assert.Equal(t, expected, got)
	assert.Equal(t, 3, got.TotalInitiatives)
	assert.Equal(t, 1, got.CompletedInitiatives)
	assert.Equal(t, 1, got.OverdueInitiatives)
	assert.Equal(t, 1, got.StrategicCount)
}

func TestGetKPISummaryFiltersSkipSnapshot(t *testing.T) {
	initiatives := &stubInitiatives{initiatives: sampleInitiatives()}
	// A poisoned snapshot proves the filtered path never touches it.
	poisoned := models.KPISnapshot{TotalInitiatives: 999}
	svc := testKPIService(&stubSnapshots{tenant: &poisoned}, initiatives, &stubAreas{})

	got, err := svc.GetKPISummary(1, models.KPIFilters{Status: models.StatusInProgress}, "admin", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalInitiatives)
	assert.Equal(t, models.StatusInProgress, initiatives.lastFilters.Status)
}

func TestGetKPISummaryScopesManagersToTheirArea(t *testing.T) {
	initiatives := &stubInitiatives{initiatives: sampleInitiatives()}
	svc := testKPIService(&stubSnapshots{err: errors.New("no snapshot")}, initiatives, &stubAreas{})

	areaID := 1
	got, err := svc.GetKPISummary(1, models.KPIFilters{}, "manager", &areaID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalInitiatives)
	require.NotNil(t, initiatives.lastFilters.AreaID)
	assert.Equal(t, 1, *initiatives.lastFilters.AreaID)
}

func TestGetAreaKPIMetricsFallback(t *testing.T) {
	areas := &stubAreas{areas: []models.Area{
		{ID: 1, Name: "Ventas"},
		{ID: 2, Name: "Marketing"},
	}}
	svc := testKPIService(
		&stubSnapshots{err: errors.New("no snapshots")},
		&stubInitiatives{initiatives: sampleInitiatives()},
		areas,
	)

	metrics, err := svc.GetAreaKPIMetrics(1, "admin", nil)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Ventas", metrics[0].AreaName)
	assert.Equal(t, 2, metrics[0].TotalInitiatives)
	assert.Equal(t, 1, metrics[0].CompletedInitiatives)
	assert.Equal(t, "Marketing", metrics[1].AreaName)
	assert.Equal(t, 1, metrics[1].TotalInitiatives)
	assert.Equal(t, 1, metrics[1].OverdueInitiatives)
}

func TestGetAreaKPIMetricsScopesManagers(t *testing.T) {
	area1, area2 := 1, 2
	snapshots := &stubSnapshots{areas: []models.KPISnapshot{
		{Scope: "area", AreaID: &area1, AreaName: "Ventas", TotalInitiatives: 2},
		{Scope: "area", AreaID: &area2, AreaName: "Marketing", TotalInitiatives: 1},
	}}
	svc := testKPIService(snapshots, &stubInitiatives{}, &stubAreas{})

	metrics, err := svc.GetAreaKPIMetrics(1, "manager", &area2)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "Marketing", metrics[0].AreaName)
}

func TestGetStrategicMetrics(t *testing.T) {
	soon := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	strategic := []models.Initiative{
		{Title: "critical one", IsStrategic: true, WeightFactor: 2.5, Progress: 30, TargetDate: &soon},
		{Title: "healthy", IsStrategic: true, WeightFactor: 1.5, Progress: 90, Status: models.StatusCompleted},
	}
	svc := testKPIService(
		&stubSnapshots{err: errors.New("no snapshot")},
		&stubInitiatives{initiatives: strategic},
		&stubAreas{},
	)

	metrics, err := svc.GetStrategicMetrics(1)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.StrategicCount)
	assert.Equal(t, 1, metrics.CompletedCount)
	assert.Equal(t, 4.0, metrics.TotalWeight)
	require.Len(t, metrics.CriticalInitiatives, 1)
	assert.Equal(t, "critical one", metrics.CriticalInitiatives[0].Title)
	assert.Equal(t, 1, metrics.CriticalCount)
}

func TestComputeSnapshotsRoundTrip(t *testing.T) {
	raw := sampleInitiatives()
	areas := &stubAreas{areas: []models.Area{
		{ID: 1, Name: "Ventas"},
		{ID: 2, Name: "Marketing"},
	}}
	svc := testKPIService(&stubSnapshots{}, &stubInitiatives{initiatives: raw}, areas)

	snapshots, err := svc.ComputeSnapshots(1)
	require.NoError(t, err)
	require.Len(t, snapshots, 4) // tenant + 2 areas + strategic

	assert.Equal(t, "tenant", snapshots[0].Scope)
	assert.Equal(t, "strategic", snapshots[3].Scope)

	// Serving the computed tenant snapshot must reproduce the raw
	// computation exactly.
	served := summaryFromSnapshot(snapshots[0])
	assert.Equal(t, BuildKPISummary(raw, svc.now()), served)
}
