package service

import (
	"context"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/internal/adapter"
	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/models"
)

type clientAuthService struct {
	serverAdapter adapter.ServerAdapter
	meta          store.MetaStore
	logger        *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, meta store.MetaStore, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		serverAdapter: serverAdapter,
		meta:          meta,
		logger:        logger,
	}
}

func (c *clientAuthService) Register(ctx context.Context, login, password string) error {
	token, err := c.serverAdapter.Register(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return fmt.Errorf("server registration failed: %w", err)
	}

	return c.persistSession(ctx, token)
}

func (c *clientAuthService) Login(ctx context.Context, login, password string) error {
	token, err := c.serverAdapter.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return fmt.Errorf("server login failed: %w", err)
	}

	return c.persistSession(ctx, token)
}

// persistSession keeps the issued session in sync meta. The pull watermark
// is preserved across re-logins so an expired token never forces a full
// re-download.
func (c *clientAuthService) persistSession(ctx context.Context, token models.Token) error {
	log := logger.FromContext(ctx)

	meta, err := c.meta.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sync meta: %w", err)
	}

	meta.IsRegistered = true
	meta.UserID = token.UserID
	meta.AuthToken = token.SignedString

	if err = c.meta.Save(ctx, meta); err != nil {
		log.Err(err).
			Str("func", "clientAuthService.persistSession").
			Int64("user_id", token.UserID).
			Msg("failed to persist session")
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

func (c *clientAuthService) RestoreSession(ctx context.Context) (bool, error) {
	meta, err := c.meta.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load sync meta: %w", err)
	}
	if !meta.IsRegistered {
		return false, nil
	}

	c.serverAdapter.SetToken(meta.AuthToken)
	return true, nil
}
