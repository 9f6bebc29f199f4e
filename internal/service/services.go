package service

import (
	"github.com/stfnfhrmnn/vocabsync/internal/config"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/validators"
)

// Services groups the server-side services consumed by the HTTP layer.
type Services struct {
	AuthService AuthService
	SyncService SyncService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg.Auth, logger),
		SyncService: NewSyncService(storages.SyncRepository, validators.NewSyncChangeValidator(), logger),
	}
}
