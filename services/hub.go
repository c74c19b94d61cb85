package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aayushprsingh/Bhooyam-Dashboard/models"
)

// EventNewSensorData is the event name pushed for every inserted reading.
const EventNewSensorData = "newSensorData"

// Event is the envelope delivered to subscribers.
type Event struct {
	Event string               `json:"event"`
	Data  models.SensorReading `json:"data"`
}

// Hub fans inserted readings out to live subscribers. Delivery is
// at-most-once: a subscriber whose buffer is full misses the event, and
// nothing is kept for subscribers that join later.
type Hub struct {
	mu     sync.RWMutex
	buffer int
	subs   map[string]chan Event
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{buffer: buffer, subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber. The channel is closed by Unsubscribe
// or Close.
func (h *Hub) Subscribe() (string, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return id, ch
	}
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish hands r to every subscriber without blocking and returns how many
// subscribers received it.
func (h *Hub) Publish(r models.SensorReading) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ev := Event{Event: EventNewSensorData, Data: r}
	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Count is the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close drops every subscriber. Later Subscribe calls get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.closed = true
}
