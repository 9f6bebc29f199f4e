package models

// QueueStatus is the lifecycle state of one change-queue entry.
type QueueStatus string

const (
	// QueuePending: created by a local mutation, waiting to be pushed.
	QueuePending QueueStatus = "pending"

	// QueueInFlight: claimed by a sync cycle; the push request may be on
	// the wire. Entries return to pending on failure and are deleted on
	// acknowledgment.
	QueueInFlight QueueStatus = "in-flight"

	// QueueFailed: the server rejected this specific change (per-change
	// error in a push response). Kept for retry with its error reason.
	QueueFailed QueueStatus = "failed"
)

// QueueEntry wraps a SyncChange with client-side queue bookkeeping.
type QueueEntry struct {
	// ID is the queue-local sequence id; global insertion order is
	// preserved by ordering on it.
	ID int64 `json:"id"`

	Change SyncChange `json:"change"`

	Status QueueStatus `json:"status"`

	// Attempts counts how many sync cycles have claimed this entry.
	Attempts int `json:"attempts"`

	// LastError holds the most recent per-change failure reason, if any.
	LastError string `json:"lastError,omitempty"`

	// EnqueuedAt is the client clock at enqueue time, epoch milliseconds.
	EnqueuedAt int64 `json:"enqueuedAt"`
}
