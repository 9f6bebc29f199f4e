package store

import (
	"context"
	"time"

	"github.com/stfnfhrmnn/vocabsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists server-side accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// SyncRepository is the server-side store of replicated entity rows.
//
// All writes are keyed by (userID, table, localID): the client-generated
// localID is the natural key, so replaying the same change is idempotent and
// never duplicates state. Timestamps passed in are the server's clock, not
// the client's, so pull ordering stays monotonic regardless of client clock
// skew.
type SyncRepository interface {
	// Upsert applies a create/update change: insert the row or replace its
	// whole data payload (last write wins), stamping updatedAt and clearing
	// any tombstone.
	Upsert(ctx context.Context, userID int64, change models.SyncChange, now time.Time) error

	// SoftDelete tombstones the row by setting deleted_at. A delete for a
	// row the server has never seen still records a tombstone so later
	// pulls replicate the deletion.
	SoftDelete(ctx context.Context, userID int64, table models.SyncTable, localID string, now time.Time) error

	// ChangesSince returns every change across all replicated tables where
	// updated_at or deleted_at is newer than since, as wire-ready
	// SyncChanges sorted ascending by timestamp.
	ChangesSince(ctx context.Context, userID int64, since time.Time) ([]models.SyncChange, error)

	// Snapshot returns every live (non-tombstoned) row across all tables as
	// create changes, for bootstrapping a new device.
	Snapshot(ctx context.Context, userID int64) ([]models.SyncChange, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
