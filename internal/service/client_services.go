package service

import (
	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
)

// ClientServices groups the client-side services consumed by cmd/client.
type ClientServices struct {
	AuthService    ClientAuthService
	LibraryService LibraryService
	SyncService    ClientSyncService
	SyncJob        ClientSyncJob
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	syncSvc := NewClientSyncService(storages, serverAdapter, cfg.Workers.PushBatchSize, logger)

	return &ClientServices{
		AuthService:    NewClientAuthService(serverAdapter, storages.Meta, logger),
		LibraryService: NewLibraryService(storages.Entities, storages.Queue, logger),
		SyncService:    syncSvc,
		SyncJob:        NewClientSyncJob(syncSvc, storages, cfg.Workers.SyncInterval, logger),
	}
}
