package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the sync server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound push/pull
	// requests.
	RequestTimeout time.Duration
}

// ClientStorage holds the client's embedded database settings.
type ClientStorage struct {
	// Path is the sqlite database file holding the change queue, entity
	// tables, and sync meta.
	Path string
}

// ClientWorkers holds client background sync job settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync orchestrator fires.
	SyncInterval time.Duration
	// PushBatchSize caps how many queued changes one cycle claims.
	PushBatchSize int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter
	// Storage contains the local database settings.
	Storage ClientStorage
	// Workers contains sync job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, applies defaults for optional sync job
// settings, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			Path: cfg.Storage.Local.Path,
		},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			PushBatchSize: cfg.Workers.PushBatchSize,
		},
	}

	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if clientCfg.Workers.SyncInterval == 0 {
		clientCfg.Workers.SyncInterval = 30 * time.Second
	}
	if clientCfg.Workers.PushBatchSize == 0 {
		clientCfg.Workers.PushBatchSize = 100
	}

	return clientCfg, clientCfg.validate()
}
