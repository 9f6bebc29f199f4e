package models

// SyncMeta is the client's process-wide persisted sync state. It is
// initialized at first registration (or device transfer), updated after
// every successful pull, and survives process restarts.
//
// SyncMeta is mutated only by the sync orchestrator and the auth flow;
// status consumers read it but never write it.
type SyncMeta struct {
	// IsRegistered reports whether this device is linked to a server
	// account. While false the orchestrator never attempts a cycle.
	IsRegistered bool `json:"isRegistered"`

	// UserID is the server-side account id this device belongs to.
	UserID int64 `json:"userId"`

	// AuthToken is the bearer token presented on every sync request.
	AuthToken string `json:"authToken"`

	// LastPullTimestamp is the high-water mark (server time, epoch ms)
	// used as the next pull's "since" parameter. Zero means the device
	// has never pulled.
	LastPullTimestamp int64 `json:"lastPullTimestamp"`
}
