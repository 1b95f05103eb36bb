package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"okr-dashboard/internal/config"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	importHandler := NewImportCommitHandler(db, redisClient, cfg)
	mux.HandleFunc(TypeImportCommit, importHandler.Handle)

	refreshHandler := NewKPIRefreshHandler(db, cfg)
	mux.HandleFunc(TypeKPIRefresh, refreshHandler.Handle)
}
