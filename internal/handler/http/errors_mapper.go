package http

import (
	"errors"
	"net/http"

	"github.com/stfnfhrmnn/vocabsync/internal/service"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	validators.ErrEmptyChanges:       http.StatusBadRequest,
	validators.ErrUnknownTable:       http.StatusBadRequest,
	validators.ErrInvalidOperation:   http.StatusBadRequest,
	validators.ErrInvalidLocalID:     http.StatusBadRequest,
	validators.ErrEmptyData:          http.StatusBadRequest,
	validators.ErrDataOnDelete:       http.StatusBadRequest,
	validators.ErrMalformedData:      http.StatusBadRequest,
	validators.ErrInvalidTimestamp:   http.StatusBadRequest,
	validators.ErrLocalIDPayloadSkew: http.StatusBadRequest,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrUnknownSyncTable:   http.StatusBadRequest,
	store.ErrRecordNotFound:     http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
