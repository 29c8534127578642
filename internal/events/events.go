package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationLoaded    = "reservation_loaded"
	EventReservationSubmitted = "reservation_submitted"
	EventReservationFailed    = "reservation_failed"
)

// ReservationEventPayload is the draft snapshot carried by reservation events.
type ReservationEventPayload struct {
	ChatID        int64  `json:"chat_id,omitempty"`
	ReservationID string `json:"reservation_id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Diners        string `json:"diners"`
	Seating       string `json:"seating"`
	Pickup        string `json:"pickup"`
	Error         string `json:"error,omitempty"`
}

// Event is a published message with a JSON payload.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into out.
func (e *Event) Decode(out interface{}) error {
	return json.Unmarshal(e.Payload, out)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus is an in-process pub/sub.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	onError     func(event *Event, err error)
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// OnError sets a callback for handler failures.
func (b *EventBus) OnError(fn func(event *Event, err error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	onError := b.onError
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil && onError != nil {
			onError(event, err)
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
