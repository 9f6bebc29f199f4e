package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/utils"
	"github.com/stfnfhrmnn/vocabsync/models"
)

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.push").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	var pushRequest models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&pushRequest); err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.ApplyPush(ctx, userID, pushRequest.Changes)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("error applying pushed changes")
		http.Error(w, "error applying pushed changes", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pull").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	// since is epoch milliseconds; a fresh client sends 0 or omits it.
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Err(err).Str("func", "*Handler.pull").Str("since", raw).Msg("invalid `since` query parameter")
			http.Error(w, "invalid `since` query parameter", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	response, err := h.services.SyncService.ChangesSince(ctx, userID, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pull").Msg("error collecting changes")
		http.Error(w, "error collecting changes", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) fullSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.fullSync").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	response, err := h.services.SyncService.Snapshot(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.fullSync").Msg("error building snapshot")
		http.Error(w, "error building snapshot", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
