package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stfnfhrmnn/vocabsync/models"
)

const (
	FieldTable     = "table"
	FieldOperation = "operation"
	FieldLocalID   = "local_id"
	FieldData      = "data"
	FieldTimestamp = "timestamp"
)

// SyncChangeValidator validates inbound replication changes before they are
// merged into the server store.
type SyncChangeValidator struct {
}

func NewSyncChangeValidator() Validator {
	return &SyncChangeValidator{}
}

func (v *SyncChangeValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncChange:
		return v.validateChange(ctx, value, fields...)
	case *models.SyncChange:
		return v.validateChange(ctx, *value, fields...)

	case models.PushRequest:
		return v.validatePushRequest(ctx, value)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

// validateChange checks one change. With no field names given, every rule is
// applied; otherwise only the named fields are checked.
func (v *SyncChangeValidator) validateChange(_ context.Context, change models.SyncChange, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTable, FieldOperation, FieldLocalID, FieldData}
	}

	for _, field := range fields {
		switch field {
		case FieldTable:
			if !change.Table.IsValid() {
				return fmt.Errorf("%w: %q", ErrUnknownTable, change.Table)
			}

		case FieldOperation:
			if !change.Operation.IsValid() {
				return fmt.Errorf("%w: %q", ErrInvalidOperation, change.Operation)
			}

		case FieldLocalID:
			if change.LocalID == "" {
				return ErrInvalidLocalID
			}

		case FieldData:
			if err := v.validateData(change); err != nil {
				return err
			}

		case FieldTimestamp:
			if change.Timestamp < 0 {
				return ErrInvalidTimestamp
			}

		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

// validateData enforces the data/operation pairing rules: create and update
// carry a JSON object whose localId (when present) matches the change's,
// delete carries null data. A tombstone replicates identity only.
func (v *SyncChangeValidator) validateData(change models.SyncChange) error {
	if change.IsDelete() {
		if len(change.Data) > 0 && string(change.Data) != "null" {
			return ErrDataOnDelete
		}
		return nil
	}

	if len(change.Data) == 0 || string(change.Data) == "null" {
		return ErrEmptyData
	}

	var payload struct {
		LocalID string `json:"localId"`
	}
	if err := json.Unmarshal(change.Data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	if payload.LocalID != "" && payload.LocalID != change.LocalID {
		return ErrLocalIDPayloadSkew
	}

	return nil
}

func (v *SyncChangeValidator) validatePushRequest(ctx context.Context, req models.PushRequest) error {
	if len(req.Changes) == 0 {
		return ErrEmptyChanges
	}

	for i := range req.Changes {
		if err := v.validateChange(ctx, req.Changes[i]); err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
	}

	return nil
}
