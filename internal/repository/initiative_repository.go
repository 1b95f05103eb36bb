package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"okr-dashboard/internal/models"
)

type InitiativeRepository struct {
	db *sqlx.DB
}

func NewInitiativeRepository(db *sqlx.DB) *InitiativeRepository {
	return &InitiativeRepository{db: db}
}

const initiativeColumns = `
	id,
	tenant_id,
	area_id,
	objective_title,
	title,
	COALESCE(description, '') as description,
	COALESCE(owner, '') as owner,
	progress,
	status,
	priority,
	progress_method,
	weight_factor,
	is_strategic,
	start_date,
	target_date,
	budget,
	actual_cost,
	estimated_hours,
	actual_hours,
	created_at,
	updated_at`

func (r *InitiativeRepository) FindAll(tenantID int, areaID *int, limit, offset int, search string) ([]models.Initiative, int, error) {
	var initiatives []models.Initiative
	var total int

	whereClause := "WHERE tenant_id = ?"
	args := []interface{}{tenantID}

	if areaID != nil {
		whereClause += " AND area_id = ?"
		args = append(args, *areaID)
	}
	if search != "" {
		whereClause += " AND (title LIKE ? OR objective_title LIKE ? OR owner LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern, searchPattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM initiatives %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM initiatives %s ORDER BY objective_title, title LIMIT ? OFFSET ?`,
		initiativeColumns, whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&initiatives, query, args...); err != nil {
		return nil, 0, err
	}

	return initiatives, total, nil
}

func (r *InitiativeRepository) FindByID(tenantID, id int) (*models.Initiative, error) {
	var initiative models.Initiative
	query := fmt.Sprintf("SELECT %s FROM initiatives WHERE tenant_id = ? AND id = ? LIMIT 1", initiativeColumns)
	if err := r.db.Get(&initiative, query, tenantID, id); err != nil {
		return nil, err
	}
	return &initiative, nil
}

// GetByTenant fetches raw initiative records for KPI computation,
// optionally narrowed by the summary filters.
func (r *InitiativeRepository) GetByTenant(tenantID int, filters models.KPIFilters) ([]models.Initiative, error) {
	whereClause := "WHERE tenant_id = ?"
	args := []interface{}{tenantID}

	if filters.AreaID != nil {
		whereClause += " AND area_id = ?"
		args = append(args, *filters.AreaID)
	}
	if filters.Status != "" {
		whereClause += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Priority != "" {
		whereClause += " AND priority = ?"
		args = append(args, filters.Priority)
	}
	if filters.StrategicOnly {
		whereClause += " AND is_strategic = TRUE"
	}

	var initiatives []models.Initiative
	query := fmt.Sprintf("SELECT %s FROM initiatives %s ORDER BY id", initiativeColumns, whereClause)
	err := r.db.Select(&initiatives, query, args...)
	return initiatives, err
}

func (r *InitiativeRepository) Create(initiative *models.Initiative) error {
	query := `INSERT INTO initiatives
	          (tenant_id, area_id, objective_title, title, description, owner, progress, status,
	           priority, progress_method, weight_factor, is_strategic, start_date, target_date,
	           budget, actual_cost, estimated_hours, actual_hours)
	          VALUES (:tenant_id, :area_id, :objective_title, :title, :description, :owner, :progress, :status,
	           :priority, :progress_method, :weight_factor, :is_strategic, :start_date, :target_date,
	           :budget, :actual_cost, :estimated_hours, :actual_hours)`
	result, err := r.db.NamedExec(query, initiative)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	initiative.ID = int(id)
	return nil
}

func (r *InitiativeRepository) Update(initiative *models.Initiative) error {
	query := `UPDATE initiatives SET area_id = :area_id, objective_title = :objective_title,
	          title = :title, description = :description, owner = :owner, progress = :progress,
	          status = :status, priority = :priority, progress_method = :progress_method,
	          weight_factor = :weight_factor, is_strategic = :is_strategic,
	          start_date = :start_date, target_date = :target_date, budget = :budget,
	          actual_cost = :actual_cost, estimated_hours = :estimated_hours, actual_hours = :actual_hours
	          WHERE id = :id AND tenant_id = :tenant_id`
	_, err := r.db.NamedExec(query, initiative)
	return err
}

func (r *InitiativeRepository) Delete(tenantID, id int) error {
	query := "DELETE FROM initiatives WHERE tenant_id = ? AND id = ?"
	_, err := r.db.Exec(query, tenantID, id)
	return err
}

func (r *InitiativeRepository) BulkInsert(initiatives []models.Initiative) error {
	if len(initiatives) == 0 {
		return nil
	}
	query := `INSERT INTO initiatives
	          (tenant_id, area_id, objective_title, title, description, owner, progress, status,
	           priority, progress_method, weight_factor, is_strategic, start_date, target_date,
	           budget, actual_cost, estimated_hours, actual_hours)
	          VALUES (:tenant_id, :area_id, :objective_title, :title, :description, :owner, :progress, :status,
	           :priority, :progress_method, :weight_factor, :is_strategic, :start_date, :target_date,
	           :budget, :actual_cost, :estimated_hours, :actual_hours)`
	_, err := r.db.NamedExec(query, initiatives)
	return err
}

// GetActivities returns the subtasks of one initiative.
func (r *InitiativeRepository) GetActivities(initiativeID int) ([]models.Activity, error) {
	var activities []models.Activity
	query := `SELECT id, initiative_id, title, is_completed, weight_percentage, due_date, created_at, updated_at
	          FROM activities WHERE initiative_id = ? ORDER BY id`
	err := r.db.Select(&activities, query, initiativeID)
	return activities, err
}

func (r *InitiativeRepository) CreateActivity(activity *models.Activity) error {
	query := `INSERT INTO activities (initiative_id, title, is_completed, weight_percentage, due_date)
	          VALUES (:initiative_id, :title, :is_completed, :weight_percentage, :due_date)`
	result, err := r.db.NamedExec(query, activity)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	activity.ID = int(id)
	return nil
}

func (r *InitiativeRepository) UpdateActivity(activity *models.Activity) error {
	query := `UPDATE activities SET title = :title, is_completed = :is_completed,
	          weight_percentage = :weight_percentage, due_date = :due_date
	          WHERE id = :id AND initiative_id = :initiative_id`
	_, err := r.db.NamedExec(query, activity)
	return err
}

func (r *InitiativeRepository) DeleteActivity(initiativeID, id int) error {
	query := "DELETE FROM activities WHERE initiative_id = ? AND id = ?"
	_, err := r.db.Exec(query, initiativeID, id)
	return err
}
