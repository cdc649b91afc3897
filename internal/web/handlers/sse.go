package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// SSESource is the interface required by streamSSEEvents to stream events via SSE.
type SSESource interface {
	AddListener() chan PageEvent
	RemoveListener(ch chan PageEvent)
}

// setupSSEConnection finds the event source and sets up SSE headers.
// Returns the source, flusher, and true on success. On failure, writes an error response and returns zero values with false.
func setupSSEConnection(w http.ResponseWriter, r *http.Request, lookup func(int) SSESource) (SSESource, http.Flusher, bool) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return nil, nil, false
	}

	src := lookup(tabID)
	if src == nil {
		respondError(w, http.StatusNotFound, "page not attached")
		return nil, nil, false
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return nil, nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return src, flusher, true
}

// streamSSEEvents streams events of the source found for the "tabId" URL
// parameter until the client disconnects or the source closes.
func streamSSEEvents(w http.ResponseWriter, r *http.Request, lookup func(int) SSESource, getInitialData func(SSESource) any) {
	src, flusher, ok := setupSSEConnection(w, r, lookup)
	if !ok {
		return
	}

	eventCh := src.AddListener()
	defer src.RemoveListener(eventCh)

	sendSSEEvent(w, flusher, EventAttached, getInitialData(src))

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event)
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}
