// Package adapter provides the client's transport layer for talking to the
// sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the underlying protocol. The package ships an HTTP/JSON
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/stfnfhrmnn/vocabsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, bearer token
// management, and mapping transport-level failures to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Called after a successful Register or Login
	// and when restoring a persisted session.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or
	// an empty string if none has been set.
	Token() string

	// Register creates a server account. On success the returned token is
	// also stored via SetToken.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates against the server. On success the returned
	// token is also stored via SetToken.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// Push uploads a batch of queued changes. A non-nil error means the
	// batch as a whole did not reach the server; per-change rejections are
	// reported inside the response instead.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// Pull fetches every change newer than since (epoch milliseconds).
	Pull(ctx context.Context, since int64) (models.PullResponse, error)

	// FullSync fetches the complete snapshot of the account's live state.
	FullSync(ctx context.Context) (models.PullResponse, error)
}
