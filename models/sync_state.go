package models

// SyncState is the orchestrator's externally visible state.
type SyncState string

const (
	// SyncStateIdle: no cycle running, last cycle (if any) succeeded.
	SyncStateIdle SyncState = "idle"

	// SyncStateSyncing: a cycle is in flight.
	SyncStateSyncing SyncState = "syncing"

	// SyncStateOffline: the device reported no connectivity; no cycle is
	// attempted until an online signal arrives.
	SyncStateOffline SyncState = "offline"

	// SyncStateError: the last cycle failed; queued changes are kept and
	// retried on the next tick or trigger.
	SyncStateError SyncState = "error"
)

// SyncStatus is the read-only snapshot consumed for status display.
type SyncStatus struct {
	State SyncState `json:"state"`

	// LastError is the surfaced reason when State is error, empty
	// otherwise.
	LastError string `json:"lastError,omitempty"`

	// PendingCount is the number of queued changes not yet accepted by
	// the server.
	PendingCount int `json:"pendingCount"`

	// LastPullTimestamp mirrors SyncMeta's watermark, epoch milliseconds.
	LastPullTimestamp int64 `json:"lastPullTimestamp"`
}
