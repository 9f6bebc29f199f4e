package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrUnknownTable       = errors.New("unknown sync table")
	ErrInvalidOperation   = errors.New("invalid change operation")
	ErrInvalidLocalID     = errors.New("invalid local id")
	ErrEmptyData          = errors.New("data is required for create/update")
	ErrDataOnDelete       = errors.New("delete must carry null data")
	ErrMalformedData      = errors.New("data is not a valid JSON object")
	ErrEmptyChanges       = errors.New("changes list cannot be empty")
	ErrInvalidTimestamp   = errors.New("invalid change timestamp")
	ErrLocalIDPayloadSkew = errors.New("payload localId differs from change localId")
)
