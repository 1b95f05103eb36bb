package models

import "time"

// ValidationError blocks an import from being marked valid. Row is 1-based
// (matching the spreadsheet as the user sees it); Row 0 means the error is
// structural rather than tied to a specific row.
type ValidationError struct {
	Row     int    `json:"row,omitempty"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationWarning is informational: a default was substituted and
// processing continued. Warnings never affect IsValid.
type ValidationWarning struct {
	Row        int    `json:"row,omitempty"`
	Column     string `json:"column,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CanonicalRow is one normalized import record. Field names follow the
// spreadsheet template the dashboard users fill in. Dates are yyyy-MM-dd
// strings; empty means absent.
type CanonicalRow struct {
	Area        string `json:"area,omitempty"`
	Objetivo    string `json:"objetivo"`
	Iniciativa  string `json:"iniciativa"`
	Progreso    int    `json:"progreso"`
	Estado      string `json:"estado"`
	Prioridad   string `json:"prioridad"`
	FechaInicio string `json:"fecha_inicio,omitempty"`
	FechaFin    string `json:"fecha_fin,omitempty"`
	Descripcion string `json:"descripcion,omitempty"`
	Responsable string `json:"responsable,omitempty"`
	Estrategica bool   `json:"estrategica,omitempty"`
}

// ValidationResult is the top-level outcome of validating one file.
// IsValid is strictly len(Errors)==0; when IsValid is true ProcessedData
// holds at least one row.
type ValidationResult struct {
	IsValid       bool                `json:"is_valid"`
	Errors        []ValidationError   `json:"errors"`
	Warnings      []ValidationWarning `json:"warnings"`
	ProcessedData []CanonicalRow      `json:"processed_data,omitempty"`
}

// ImportSession tracks one uploaded file through staging and commit.
type ImportSession struct {
	ID            int       `db:"id" json:"id"`
	SessionCode   string    `db:"session_code" json:"session_code"`
	TenantID      int       `db:"tenant_id" json:"tenant_id"`
	UserID        int       `db:"user_id" json:"user_id"`
	Filename      string    `db:"filename" json:"filename"`
	FilePath      string    `db:"file_path" json:"file_path"`
	TotalRows     int       `db:"total_rows" json:"total_rows"`
	ValidRows     int       `db:"valid_rows" json:"valid_rows"`
	ErrorCount    int       `db:"error_count" json:"error_count"`
	WarningCount  int       `db:"warning_count" json:"warning_count"`
	ProcessedRows int       `db:"processed_rows" json:"processed_rows"`
	Status        string    `db:"status" json:"status"` // uploaded, processing, completed, failed
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StagedRow is a validated CanonicalRow persisted under an import session,
// waiting for the worker to commit it into initiatives.
type StagedRow struct {
	ID          int64     `db:"id" json:"id"`
	SessionID   int       `db:"session_id" json:"session_id"`
	RowNumber   int       `db:"row_number" json:"row_number"`
	Area        string    `db:"area" json:"area"`
	Objetivo    string    `db:"objetivo" json:"objetivo"`
	Iniciativa  string    `db:"iniciativa" json:"iniciativa"`
	Progreso    int       `db:"progreso" json:"progreso"`
	Estado      string    `db:"estado" json:"estado"`
	Prioridad   string    `db:"prioridad" json:"prioridad"`
	FechaInicio string    `db:"fecha_inicio" json:"fecha_inicio"`
	FechaFin    string    `db:"fecha_fin" json:"fecha_fin"`
	Descripcion string    `db:"descripcion" json:"descripcion"`
	Responsable string    `db:"responsable" json:"responsable"`
	Estrategica bool      `db:"estrategica" json:"estrategica"`
	IsCommitted bool      `db:"is_committed" json:"is_committed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
