package service

import (
	"context"

	"github.com/stfnfhrmnn/vocabsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService handles account registration, credential verification, and the
// JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncService is the server-side merge and replication core.
type SyncService interface {
	// ApplyPush validates and applies a client batch change by change. One
	// bad change never fails the batch: it is reported in the response's
	// error list while the rest is applied.
	ApplyPush(ctx context.Context, userID int64, changes []models.SyncChange) (models.PushResponse, error)

	// ChangesSince returns every change newer than the client's watermark
	// (epoch milliseconds), sorted ascending by timestamp, together with
	// the server's current time for the next watermark.
	ChangesSince(ctx context.Context, userID int64, since int64) (models.PullResponse, error)

	// Snapshot returns the complete live state as create changes, for
	// bootstrapping a device.
	Snapshot(ctx context.Context, userID int64) (models.PullResponse, error)
}
