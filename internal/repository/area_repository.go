package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"okr-dashboard/internal/models"
)

type AreaRepository struct {
	db *sqlx.DB
}

func NewAreaRepository(db *sqlx.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

func (r *AreaRepository) FindAll(tenantID, limit, offset int, search string) ([]models.Area, int, error) {
	var areas []models.Area
	var total int

	whereClause := "WHERE tenant_id = ?"
	args := []interface{}{tenantID}

	if search != "" {
		whereClause += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM areas %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM areas %s ORDER BY name LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&areas, query, args...); err != nil {
		return nil, 0, err
	}

	return areas, total, nil
}

func (r *AreaRepository) FindByID(tenantID, id int) (*models.Area, error) {
	var area models.Area
	query := "SELECT * FROM areas WHERE tenant_id = ? AND id = ? LIMIT 1"
	if err := r.db.Get(&area, query, tenantID, id); err != nil {
		return nil, err
	}
	return &area, nil
}

// GetActive lists the tenant's active areas, the set import validation
// resolves area cells against.
func (r *AreaRepository) GetActive(tenantID int) ([]models.Area, error) {
	var areas []models.Area
	query := "SELECT * FROM areas WHERE tenant_id = ? AND is_active = TRUE ORDER BY name"
	err := r.db.Select(&areas, query, tenantID)
	return areas, err
}

func (r *AreaRepository) Create(area *models.Area) error {
	query := `INSERT INTO areas (tenant_id, name, manager_id, is_active)
	          VALUES (:tenant_id, :name, :manager_id, :is_active)`
	result, err := r.db.NamedExec(query, area)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	area.ID = int(id)
	return nil
}

func (r *AreaRepository) Update(area *models.Area) error {
	query := `UPDATE areas SET name = :name, manager_id = :manager_id, is_active = :is_active
	          WHERE id = :id AND tenant_id = :tenant_id`
	_, err := r.db.NamedExec(query, area)
	return err
}

func (r *AreaRepository) Delete(tenantID, id int) error {
	query := "DELETE FROM areas WHERE tenant_id = ? AND id = ?"
	_, err := r.db.Exec(query, tenantID, id)
	return err
}
