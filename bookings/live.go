package bookings

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"interlink/models"
)

// A global map to manage event-specific update channels
var eventUpdateChannels = struct {
	sync.RWMutex
	channels map[string][]chan models.Spots
}{
	channels: make(map[string][]chan models.Spots),
}

func subscribe(eventID string) chan models.Spots {
	ch := make(chan models.Spots, 10)
	eventUpdateChannels.Lock()
	eventUpdateChannels.channels[eventID] = append(eventUpdateChannels.channels[eventID], ch)
	eventUpdateChannels.Unlock()
	return ch
}

func unsubscribe(eventID string, ch chan models.Spots) {
	eventUpdateChannels.Lock()
	defer eventUpdateChannels.Unlock()
	subs := eventUpdateChannels.channels[eventID]
	for i, sub := range subs {
		if sub == ch {
			eventUpdateChannels.channels[eventID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// BroadcastSpots pushes an availability update to all subscribers of an event.
// Installed as the engine's broadcast hook at startup.
func BroadcastSpots(eventID string, spots models.Spots) {
	eventUpdateChannels.RLock()
	defer eventUpdateChannels.RUnlock()
	for _, ch := range eventUpdateChannels.channels[eventID] {
		select {
		case ch <- spots:
		default:
			// Slow subscriber; drop the update rather than block the engine.
			log.Printf("Updates channel for event %s is full. Dropping update.", eventID)
		}
	}
}

// GET /api/bookings/updates/:eventid — SSE stream of availability updates.
func SpotUpdates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := subscribe(eventID)
	defer unsubscribe(eventID, ch)

	// Send the current state first so clients don't wait for a booking.
	if spots, err := Bkg.RemainingSpots(r.Context(), eventID); err == nil {
		writeSSE(w, flusher, *spots)
	}

	for {
		select {
		case spots := <-ch:
			writeSSE(w, flusher, spots)
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, spots models.Spots) {
	payload, _ := json.Marshal(spots)
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GET /api/bookings/ws/:eventid — WebSocket stream of availability updates.
func SpotUpdatesWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := subscribe(eventID)
	defer unsubscribe(eventID, ch)

	if spots, err := Bkg.RemainingSpots(r.Context(), eventID); err == nil {
		if err := conn.WriteJSON(spots); err != nil {
			return
		}
	}

	// Reader goroutine detects client close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case spots := <-ch:
			if err := conn.WriteJSON(spots); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
