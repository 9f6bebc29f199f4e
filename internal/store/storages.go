package store

import (
	"context"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
)

// Storages aggregates every server-side repository behind one constructor so
// that cmd/server wires a single dependency.
type Storages struct {
	UserRepository UserRepository
	SyncRepository SyncRepository

	// DB is the shared connection handle, exposed so that cmd/server can
	// run schema migrations before serving.
	DB *DB
}

// NewStorages connects to the configured Postgres database and constructs
// all repositories over the shared connection pool.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Storages{
		UserRepository: NewUserRepository(db, log),
		SyncRepository: NewSyncRepository(db, log),
		DB:             db,
	}, nil
}
