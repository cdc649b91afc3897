package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-shortcode/internal/menu"
	"github.com/kozaktomas/photo-shortcode/internal/messaging"
)

// MenuHandler handles context-menu endpoints
type MenuHandler struct {
	background *menu.Background
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(bg *menu.Background) *MenuHandler {
	return &MenuHandler{background: bg}
}

// ClickRequest represents a context-menu click relayed by the extension
type ClickRequest struct {
	TabID      *int   `json:"tabId"`
	MenuItemID string `json:"menuItemId"`
	SrcURL     string `json:"srcUrl"`
}

// List returns the registered menu entries
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, menu.Registered())
}

// Click relays a menu click to the page of the clicked tab
func (h *MenuHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if req.TabID == nil {
		respondError(w, http.StatusBadRequest, "tabId is required")
		return
	}
	if _, ok := menu.Lookup(req.MenuItemID); !ok {
		respondError(w, http.StatusBadRequest, "unknown menu item")
		return
	}

	info := messaging.MenuInfo{MenuItemID: req.MenuItemID, SrcURL: req.SrcURL}
	if err := h.background.HandleClick(info, *req.TabID); err != nil {
		log.Printf("Menu click for tab %d not delivered: %s", *req.TabID, sanitizeForLog(err.Error()))
		if errors.Is(err, messaging.ErrNoReceiver) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":       "relayed",
		"menu_item_id": req.MenuItemID,
	})
}
