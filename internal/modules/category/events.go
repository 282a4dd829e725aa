package category

import (
	"log/slog"
	"sync"
	"time"
)

// EventType names a category store change.
type EventType string

const (
	EventSeeded  EventType = "category.seeded"
	EventCreated EventType = "category.created"
	EventUpdated EventType = "category.updated"
	EventDeleted EventType = "category.deleted"
)

// Event is published after every successful store mutation.
type Event struct {
	Type     EventType `json:"type"`
	Category *Category `json:"category,omitempty"`
	Count    int       `json:"count,omitempty"`
	Origin   string    `json:"origin,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher receives store events.
type Publisher interface {
	Publish(e Event)
}

// Broker fans events out to in-process subscribers. A subscriber whose
// buffer is full misses the event; publishers never block.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	buffer int
}

// NewBroker creates a broker whose subscriber channels hold buffer events.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func closes the
// channel and may be called more than once.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("dropping category event for slow subscriber", "subscriber", id, "type", e.Type)
		}
	}
}

// Subscribers reports how many subscribers are registered.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
