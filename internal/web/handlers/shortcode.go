package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-shortcode/internal/settings"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

// ShortcodeHandler generates shortcodes for images described by the client
type ShortcodeHandler struct {
	store *settings.Store
}

// NewShortcodeHandler creates a new shortcode handler
func NewShortcodeHandler(store *settings.Store) *ShortcodeHandler {
	return &ShortcodeHandler{store: store}
}

// ShortcodeRequest represents a generate request. Either Image or Images
// must be set.
type ShortcodeRequest struct {
	Image  *shortcode.Image  `json:"image,omitempty"`
	Images []shortcode.Image `json:"images,omitempty"`
	Layout string            `json:"layout"`
}

// ShortcodeResponse represents the generated text.
type ShortcodeResponse struct {
	Shortcode string `json:"shortcode"`
	Count     int    `json:"count"`
}

// Generate returns the shortcode for one or more images using the stored settings
func (h *ShortcodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req ShortcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	images := req.Images
	if req.Image != nil {
		images = append([]shortcode.Image{*req.Image}, images...)
	}
	if len(images) == 0 {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	for _, img := range images {
		if img.Src == "" || img.Width <= 0 || img.Height <= 0 {
			respondError(w, http.StatusBadRequest, "image needs src, width and height")
			return
		}
	}

	layout := shortcode.ParseLayout(req.Layout)

	s, err := h.store.Load(r.Context())
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		respondError(w, http.StatusServiceUnavailable, "failed to load settings")
		return
	}

	respondJSON(w, http.StatusOK, ShortcodeResponse{
		Shortcode: shortcode.GenerateAll(images, s.Options(), layout),
		Count:     len(images),
	})
}
