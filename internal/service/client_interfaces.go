package service

import (
	"context"
	"encoding/json"

	"github.com/stfnfhrmnn/vocabsync/models"
)

// ClientAuthService links the device to a server account and restores the
// persisted session on startup.
type ClientAuthService interface {
	// Register creates a server account and persists the issued session in
	// sync meta. The device is registered afterwards.
	Register(ctx context.Context, login, password string) error

	// Login authenticates an existing account and persists the session,
	// e.g. after a device transfer or an expired token.
	Login(ctx context.Context, login, password string) error

	// RestoreSession loads the persisted session into the transport.
	// Returns false when the device has never been registered.
	RestoreSession(ctx context.Context) (bool, error)
}

// LibraryService is the write path of the local vocabulary library. Every
// mutation lands in the local store and the change queue in the same call;
// nothing here ever touches the network.
type LibraryService interface {
	// Create stores a new entity under a fresh localId and queues the
	// matching create change. Returns the assigned localId.
	Create(ctx context.Context, table models.SyncTable, payload any) (string, error)

	// Update replaces the entity's whole payload and queues an update.
	Update(ctx context.Context, table models.SyncTable, localID string, payload any) error

	// Delete tombstones the entity locally and queues a delete.
	Delete(ctx context.Context, table models.SyncTable, localID string) error

	// Get reads one live entity's payload from the local store.
	Get(ctx context.Context, table models.SyncTable, localID string) (json.RawMessage, error)

	// List reads every live payload in a table from the local store.
	List(ctx context.Context, table models.SyncTable) ([]json.RawMessage, error)

	// PendingCount reports the queue depth for status display.
	PendingCount(ctx context.Context) (int, error)
}

// ClientSyncService runs individual synchronisation passes against the
// server. Scheduling and state tracking live in [ClientSyncJob].
type ClientSyncService interface {
	// RunCycle performs one push-then-pull pass. A push transport failure
	// aborts the cycle before the pull so the watermark never advances
	// past unpushed local changes.
	RunCycle(ctx context.Context) error

	// Bootstrap replaces the local replicated state with the server's full
	// snapshot. Queued local changes survive and are pushed on the next
	// cycle.
	Bootstrap(ctx context.Context) error
}

// ClientSyncJob is the background orchestrator: a single-flight state
// machine driven by a fixed-interval ticker and external triggers.
type ClientSyncJob interface {
	// Start launches the background goroutine. Any previously running job
	// is stopped first.
	Start(ctx context.Context)

	// Stop signals the goroutine to exit and blocks until it has.
	Stop()

	// Trigger requests a cycle outside the regular schedule (app
	// foreground, manual refresh). Ignored while offline or mid-cycle.
	Trigger(trigger SyncTrigger)

	// SetOnline feeds connectivity transitions into the state machine. An
	// online transition immediately triggers a cycle.
	SetOnline(online bool)

	// Status returns the current state snapshot for display.
	Status(ctx context.Context) models.SyncStatus
}
