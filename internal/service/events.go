package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventNetworkLoaded     EventType = "network_loaded"
	EventNetworkLoadFailed EventType = "network_load_failed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// LoadSummary is the payload of EventNetworkLoaded
type LoadSummary struct {
	SnapshotID string   `json:"snapshot_id"`
	Nodes      int      `json:"nodes"`
	Links      int      `json:"links"`
	Streams    int      `json:"streams"`
	Resolved   []string `json:"resolved"`
	Unresolved []string `json:"unresolved"`
	Replaced   []string `json:"replaced,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
}

// LoadFailure is the payload of EventNetworkLoadFailed
type LoadFailure struct {
	Error string `json:"error"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
