package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
)

// SettingsHandler handles the options page endpoints
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// SettingsResponse is returned by Update.
type SettingsResponse struct {
	Message  string            `json:"message,omitempty"`
	Error    string            `json:"error,omitempty"`
	Settings settings.Settings `json:"settings"`
}

// Get returns the current settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Load(r.Context())
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		respondError(w, http.StatusServiceUnavailable, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Update saves the settings. Fields missing from the body keep their
// current value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.Load(r.Context())
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		respondError(w, http.StatusServiceUnavailable, "failed to load settings")
		return
	}

	next := current
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if next.ThumbWidth < 0 || next.RowHeight < 0 || next.MaxWidth < 0 {
		respondError(w, http.StatusBadRequest, "sizes must not be negative")
		return
	}

	saved, err := h.store.Save(r.Context(), next)
	switch {
	case errors.Is(err, settings.ErrThumbWidthRequired):
		respondJSON(w, http.StatusUnprocessableEntity, SettingsResponse{
			Error:    notify.MsgThumbRequired,
			Settings: saved,
		})
	case err != nil:
		log.Printf("Failed to save settings: %v", err)
		respondError(w, http.StatusServiceUnavailable, "failed to save settings")
	default:
		respondJSON(w, http.StatusOK, SettingsResponse{
			Message:  notify.MsgSaved,
			Settings: saved,
		})
	}
}
