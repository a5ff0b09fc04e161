// Package notify guarda los avisos transitorios (toasts) de éxito/error que
// generan las mutaciones, hasta que la vista los consume.
package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const DefaultCapacity = 50

type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Center es una cola acotada; al llenarse descarta los avisos más viejos.
type Center struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{max: capacity, now: time.Now}
}

func (c *Center) Success(msg string) Notification { return c.Push(LevelSuccess, msg) }

func (c *Center) Error(msg string) Notification { return c.Push(LevelError, msg) }

func (c *Center) Push(level Level, msg string) Notification {
	n := Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: strings.TrimSpace(msg),
		At:      c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, n)
	if over := len(c.items) - c.max; over > 0 {
		c.items = append([]Notification(nil), c.items[over:]...)
	}
	return n
}

// Drain devuelve los avisos pendientes (más viejo primero) y vacía la cola.
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.items
	c.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Reset descarta todo (logout).
func (c *Center) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
