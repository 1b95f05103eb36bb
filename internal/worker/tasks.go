package worker

// Task type names shared between the web enqueuer and the worker.
const (
	TypeImportCommit = "import:commit"
	TypeKPIRefresh   = "kpi:refresh"
)

type ImportCommitPayload struct {
	SessionID   int    `json:"session_id"`
	SessionCode string `json:"session_code"`
	TenantID    int    `json:"tenant_id"`
}

type KPIRefreshPayload struct {
	TenantID int `json:"tenant_id"`
}
