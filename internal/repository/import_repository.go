package repository

import (
	"github.com/jmoiron/sqlx"

	"okr-dashboard/internal/models"
)

type ImportRepository struct {
	db *sqlx.DB
}

func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) CreateSession(session *models.ImportSession) error {
	query := `INSERT INTO import_sessions
	          (session_code, tenant_id, user_id, filename, file_path, total_rows, valid_rows,
	           error_count, warning_count, status, error_message)
	          VALUES (:session_code, :tenant_id, :user_id, :filename, :file_path, :total_rows, :valid_rows,
	           :error_count, :warning_count, :status, :error_message)`
	result, err := r.db.NamedExec(query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *ImportRepository) GetSessionByID(id int) (*models.ImportSession, error) {
	var session models.ImportSession
	query := `SELECT id, session_code, tenant_id, user_id, filename, file_path, total_rows,
	          valid_rows, error_count, warning_count, processed_rows, status,
	          COALESCE(error_message, '') as error_message, created_at, updated_at
	          FROM import_sessions WHERE id = ? LIMIT 1`
	if err := r.db.Get(&session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ImportRepository) GetSessions(tenantID, limit, offset, filterUserID int) ([]models.ImportSession, int, error) {
	var sessions []models.ImportSession
	var total int

	whereClause := "WHERE tenant_id = ?"
	args := []interface{}{tenantID}
	if filterUserID > 0 {
		whereClause += " AND user_id = ?"
		args = append(args, filterUserID)
	}

	countQuery := "SELECT COUNT(*) FROM import_sessions " + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, session_code, tenant_id, user_id, filename, file_path, total_rows,
	          valid_rows, error_count, warning_count, processed_rows, status,
	          COALESCE(error_message, '') as error_message, created_at, updated_at
	          FROM import_sessions ` + whereClause + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	if err := r.db.Select(&sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *ImportRepository) UpdateSession(session *models.ImportSession) error {
	query := `UPDATE import_sessions SET total_rows = :total_rows, valid_rows = :valid_rows,
	          error_count = :error_count, warning_count = :warning_count,
	          processed_rows = :processed_rows, status = :status, error_message = :error_message
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, session)
	return err
}

func (r *ImportRepository) UpdateSessionStatus(id int, status string) error {
	query := "UPDATE import_sessions SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *ImportRepository) BulkInsertStagedRows(rows []models.StagedRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO import_rows
	          (session_id, row_number, area, objetivo, iniciativa, progreso, estado, prioridad,
	           fecha_inicio, fecha_fin, descripcion, responsable, estrategica, is_committed)
	          VALUES (:session_id, :row_number, :area, :objetivo, :iniciativa, :progreso, :estado, :prioridad,
	           :fecha_inicio, :fecha_fin, :descripcion, :responsable, :estrategica, :is_committed)`
	_, err := r.db.NamedExec(query, rows)
	return err
}

// GetUncommittedRows returns the next batch of staged rows waiting to be
// committed into initiatives.
func (r *ImportRepository) GetUncommittedRows(sessionID, limit int) ([]models.StagedRow, error) {
	var rows []models.StagedRow
	query := `SELECT id, session_id, row_number, area, objetivo, iniciativa, progreso, estado,
	          prioridad, fecha_inicio, fecha_fin, descripcion, responsable, estrategica,
	          is_committed, created_at
	          FROM import_rows WHERE session_id = ? AND is_committed = FALSE
	          ORDER BY row_number LIMIT ?`
	err := r.db.Select(&rows, query, sessionID, limit)
	return rows, err
}

func (r *ImportRepository) MarkRowsCommitted(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE import_rows SET is_committed = TRUE WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(r.db.Rebind(query), args...)
	return err
}
