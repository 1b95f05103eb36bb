package models

import "time"

// KPISummary aggregates progress and budget numbers over a set of
// initiatives. Fully recomputed on each call; never cached in the core.
type KPISummary struct {
	TotalInitiatives     int     `json:"total_initiatives"`
	CompletedInitiatives int     `json:"completed_initiatives"`
	AverageProgress      int     `json:"average_progress"` // weighted
	OverdueInitiatives   int     `json:"overdue_initiatives"`
	StrategicCount       int     `json:"strategic_count"`
	StrategicProgress    int     `json:"strategic_progress"`
	StrategicWeight      float64 `json:"strategic_weight"`
	TotalBudget          float64 `json:"total_budget"`
	TotalActualCost      float64 `json:"total_actual_cost"`
	BudgetUtilization    float64 `json:"budget_utilization"` // percent
}

type AreaKPIMetrics struct {
	AreaID               int    `json:"area_id"`
	AreaName             string `json:"area_name"`
	TotalInitiatives     int    `json:"total_initiatives"`
	CompletedInitiatives int    `json:"completed_initiatives"`
	AverageProgress      int    `json:"average_progress"`
	OverdueInitiatives   int    `json:"overdue_initiatives"`
}

type StrategicMetrics struct {
	StrategicCount    int          `json:"strategic_count"`
	CompletedCount    int          `json:"completed_count"`
	AverageProgress   int          `json:"average_progress"` // weighted
	TotalWeight       float64      `json:"total_weight"`
	CriticalCount     int          `json:"critical_count"`
	CriticalInitiatives []Initiative `json:"critical_initiatives"`
}

// KPIFilters narrows the initiative set a summary is computed over.
type KPIFilters struct {
	AreaID        *int   `json:"area_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Priority      string `json:"priority,omitempty"`
	StrategicOnly bool   `json:"strategic_only,omitempty"`
}

// KPISnapshot is one precomputed aggregate row from kpi_snapshots,
// refreshed by the worker after imports and CRUD writes.
type KPISnapshot struct {
	ID                   int       `db:"id" json:"id"`
	TenantID             int       `db:"tenant_id" json:"tenant_id"`
	Scope                string    `db:"scope" json:"scope"` // tenant, area, strategic
	AreaID               *int      `db:"area_id" json:"area_id"`
	AreaName             string    `db:"area_name" json:"area_name"`
	TotalInitiatives     int       `db:"total_initiatives" json:"total_initiatives"`
	CompletedInitiatives int       `db:"completed_initiatives" json:"completed_initiatives"`
	AverageProgress      int       `db:"average_progress" json:"average_progress"`
	OverdueInitiatives   int       `db:"overdue_initiatives" json:"overdue_initiatives"`
	StrategicCount       int       `db:"strategic_count" json:"strategic_count"`
	StrategicProgress    int       `db:"strategic_progress" json:"strategic_progress"`
	StrategicWeight      float64   `db:"strategic_weight" json:"strategic_weight"`
	TotalBudget          float64   `db:"total_budget" json:"total_budget"`
	TotalActualCost      float64   `db:"total_actual_cost" json:"total_actual_cost"`
	ComputedAt           time.Time `db:"computed_at" json:"computed_at"`
}
