package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aripbudiman/lingoecho/internal/events"
	"github.com/aripbudiman/lingoecho/internal/metrics"
	"github.com/aripbudiman/lingoecho/internal/service"
)

const streamHeartbeatInterval = 30 * time.Second

// StreamHandler serves live data over server-sent events. Each stream
// sends a full snapshot immediately on connect and again whenever the
// underlying records change.
type StreamHandler struct {
	broker           *events.Broker
	translateService *service.TranslateService
	progressService  *service.ProgressService
	collector        *metrics.Collector
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(broker *events.Broker, translateService *service.TranslateService, progressService *service.ProgressService, collector *metrics.Collector) *StreamHandler {
	return &StreamHandler{
		broker:           broker,
		translateService: translateService,
		progressService:  progressService,
		collector:        collector,
	}
}

// Sessions streams the user's chat session list
func (h *StreamHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	topic := events.Topic{UserID: user.ID, Stream: events.StreamSessions}
	h.serve(w, r, topic, func() (any, error) {
		return h.translateService.Sessions(user.ID)
	})
}

// Messages streams the messages of one chat session
func (h *StreamHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID := r.PathValue("id")

	// Reject unknown sessions before upgrading to a stream
	if _, err := h.translateService.Messages(user.ID, sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session not found", nil)
		return
	}

	topic := events.Topic{UserID: user.ID, Stream: events.StreamMessages, SessionID: sessionID}
	h.serve(w, r, topic, func() (any, error) {
		return h.translateService.Messages(user.ID, sessionID)
	})
}

// Scores streams the user's quiz history and progress summary
func (h *StreamHandler) Scores(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	topic := events.Topic{UserID: user.ID, Stream: events.StreamScores}
	h.serve(w, r, topic, func() (any, error) {
		return h.progressService.Summary(user.ID)
	})
}

// serve runs the SSE loop: snapshot on connect, snapshot on every
// change notification, heartbeat comments in between. The loop ends
// when the client disconnects or the subscription is closed (logout).
func (h *StreamHandler) serve(w http.ResponseWriter, r *http.Request, topic events.Topic, snapshot func() (any, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	sub, cancel := h.broker.Subscribe(topic)
	defer cancel()

	h.collector.StreamOpened(topic.Stream)
	defer h.collector.StreamClosed(topic.Stream)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if !h.sendSnapshot(w, flusher, topic, snapshot) {
		return
	}

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub.C:
			if !open {
				// Subscription closed server-side, tell the client to stop
				fmt.Fprint(w, "event: close\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			if !h.sendSnapshot(w, flusher, topic, snapshot) {
				return
			}
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) sendSnapshot(w http.ResponseWriter, flusher http.Flusher, topic events.Topic, snapshot func() (any, error)) bool {
	data, err := snapshot()
	if err != nil {
		log.Printf("Failed to build %s snapshot for user %d: %v", topic.Stream, topic.UserID, err)
		return false
	}
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode %s snapshot: %v", topic.Stream, err)
		return false
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	flusher.Flush()
	return true
}
