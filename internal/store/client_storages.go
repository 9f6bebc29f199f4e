package store

import (
	"context"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
)

// ClientStorages groups the client-side repositories backed by one embedded
// sqlite database: the durable change queue, the replicated entity tables,
// and the sync meta row.
type ClientStorages struct {
	Queue    ChangeQueue
	Entities LocalStore
	Meta     MetaStore
}

// NewClientStorages opens the embedded database, bootstraps its schema, and
// wires the client repositories over the shared connection.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return &ClientStorages{
		Queue:    NewChangeQueue(db, logger),
		Entities: NewLocalStore(db, logger),
		Meta:     NewMetaStore(db, logger),
	}, nil
}
