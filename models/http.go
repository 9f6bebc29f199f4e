package models

// PushRequest is the body of POST /sync/push: the batch of client changes
// drained from the local queue, in queue insertion order.
type PushRequest struct {
	Changes []SyncChange `json:"changes"`
}

// PushError reports one failed change inside an otherwise processed batch.
// It carries enough identity for the client to requeue that entry alone.
type PushError struct {
	Table   SyncTable `json:"table"`
	LocalID string    `json:"localId"`
	Error   string    `json:"error"`
}

// PushResponse reports per-change outcomes of a push batch. A failure on
// one change never aborts the rest of the batch.
type PushResponse struct {
	Success   bool        `json:"success"`
	Processed int         `json:"processed"`
	Errors    []PushError `json:"errors,omitempty"`
}

// PullResponse is the body of GET /sync/pull and POST /sync/full.
//
// Changes are sorted ascending by Timestamp across all tables. ServerTime
// is the server's clock at response time; the client stores it as the next
// pull's "since" so that request latency never opens a gap.
type PullResponse struct {
	Success    bool         `json:"success"`
	Changes    []SyncChange `json:"changes"`
	ServerTime int64        `json:"serverTime"`
}
