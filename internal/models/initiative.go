package models

import "time"

// Progress calculation methods
const (
	ProgressMethodManual       = "manual"
	ProgressMethodSubtaskBased = "subtask_based"
	ProgressMethodHybrid       = "hybrid"
)

// Canonical initiative statuses
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
)

// Canonical priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Initiative struct {
	ID             int        `db:"id" json:"id"`
	TenantID       int        `db:"tenant_id" json:"tenant_id"`
	AreaID         *int       `db:"area_id" json:"area_id"`
	ObjectiveTitle string     `db:"objective_title" json:"objective_title"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Owner          string     `db:"owner" json:"owner"`
	Progress       int        `db:"progress" json:"progress"`
	Status         string     `db:"status" json:"status"`
	Priority       string     `db:"priority" json:"priority"`
	ProgressMethod string     `db:"progress_method" json:"progress_method"`
	WeightFactor   float64    `db:"weight_factor" json:"weight_factor"`
	IsStrategic    bool       `db:"is_strategic" json:"is_strategic"`
	StartDate      *time.Time `db:"start_date" json:"start_date"`
	TargetDate     *time.Time `db:"target_date" json:"target_date"`
	Budget         *float64   `db:"budget" json:"budget"`
	ActualCost     *float64   `db:"actual_cost" json:"actual_cost"`
	EstimatedHours *float64   `db:"estimated_hours" json:"estimated_hours"`
	ActualHours    float64    `db:"actual_hours" json:"actual_hours"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type InitiativeRequest struct {
	AreaID         *int     `json:"area_id"`
	ObjectiveTitle string   `json:"objective_title" validate:"required"`
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	Owner          string   `json:"owner"`
	Progress       int      `json:"progress"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	ProgressMethod string   `json:"progress_method"`
	WeightFactor   float64  `json:"weight_factor"`
	IsStrategic    bool     `json:"is_strategic"`
	StartDate      string   `json:"start_date"`
	TargetDate     string   `json:"target_date"`
	Budget         *float64 `json:"budget"`
	ActualCost     *float64 `json:"actual_cost"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    float64  `json:"actual_hours"`
}

// Activity is a subtask of an initiative. WeightPercentage is optional;
// when present it drives weighted subtask progress.
type Activity struct {
	ID               int        `db:"id" json:"id"`
	InitiativeID     int        `db:"initiative_id" json:"initiative_id"`
	Title            string     `db:"title" json:"title"`
	IsCompleted      bool       `db:"is_completed" json:"is_completed"`
	WeightPercentage *float64   `db:"weight_percentage" json:"weight_percentage"`
	DueDate          *time.Time `db:"due_date" json:"due_date"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type ActivityRequest struct {
	Title            string   `json:"title" validate:"required"`
	IsCompleted      bool     `json:"is_completed"`
	WeightPercentage *float64 `json:"weight_percentage"`
	DueDate          string   `json:"due_date"`
}
