package querycache

import (
	"sync"
	"time"
)

type EventType string

const (
	EventUpdated     EventType = "updated"
	EventFailed      EventType = "failed"
	EventInvalidated EventType = "invalidated"
	EventRemoved     EventType = "removed"
	EventCleared     EventType = "cleared"
)

// Event avisa a los observadores que una entrada cambió.
type Event struct {
	Type EventType `json:"type"`
	Key  string    `json:"key"`
	At   time.Time `json:"at"`
}

type subscription struct {
	prefix string
	pin    bool // mantiene vivas las entradas frente al GC
	ch     chan Event
}

// Subscribe observa las keys bajo prefix. Mientras la suscripción exista,
// esas entradas no se desalojan. Llamar a cancel al terminar.
func (c *Cache) Subscribe(prefix Key) (<-chan Event, func()) {
	return c.subscribe(prefix, true)
}

// Watch es como Subscribe pero no retiene entradas (ej. stream de eventos).
func (c *Cache) Watch(prefix Key) (<-chan Event, func()) {
	return c.subscribe(prefix, false)
}

func (c *Cache) subscribe(prefix Key, pin bool) (<-chan Event, func()) {
	sub := &subscription{
		prefix: prefix.String(),
		pin:    pin,
		ch:     make(chan Event, subscriberBuffer),
	}

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// publishLocked no bloquea: si el buffer del observador está lleno, el
// evento se pierde.
func (c *Cache) publishLocked(t EventType, key string, at time.Time) {
	ev := Event{Type: t, Key: key, At: at}
	for _, sub := range c.subs {
		if t != EventCleared && !matchesPrefix(key, sub.prefix) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func (c *Cache) observedLocked(key string) bool {
	for _, sub := range c.subs {
		if sub.pin && matchesPrefix(key, sub.prefix) {
			return true
		}
	}
	return false
}
