package models

import "encoding/json"

// ChangeOperation is the kind of mutation a SyncChange carries.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "create"
	OperationUpdate ChangeOperation = "update"
	OperationDelete ChangeOperation = "delete"
)

// IsValid reports whether op is one of the three known operations.
func (op ChangeOperation) IsValid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// SyncChange is the unit of replication: one mutation event to one entity.
//
// LocalID is generated on the client and uniquely identifies one logical
// entity across every device and the server. Two devices creating "the same"
// entity independently produce two distinct entities; there is no
// merge-by-content.
type SyncChange struct {
	// Table names the entity table the change belongs to.
	Table SyncTable `json:"table"`

	// Operation is create, update, or delete.
	Operation ChangeOperation `json:"operation"`

	// LocalID is the client-generated, globally-unique identifier of the
	// logical entity. It is the natural key for idempotent replication.
	LocalID string `json:"localId"`

	// Data is the full replicable field set for create/update, encoded as
	// JSON. It is null for delete: once an entity is tombstoned its other
	// fields are not replicated.
	Data json.RawMessage `json:"data,omitempty"`

	// Timestamp is the change's ordering clock in epoch milliseconds.
	// On pull responses this is always the server's clock.
	Timestamp int64 `json:"timestamp"`
}

// IsDelete reports whether the change is a tombstone.
func (c *SyncChange) IsDelete() bool {
	return c.Operation == OperationDelete
}
