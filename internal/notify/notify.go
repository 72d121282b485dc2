// Package notify keeps the short-lived messages shown after user actions.
package notify

import (
	"log"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const DefaultDuration = 3 * time.Second

type Toast struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier is what views use to tell the user how an action went.
type Notifier interface {
	Success(message string)
	Error(message string, err error)
}

// Center stores toasts until they dismiss themselves.
type Center struct {
	mu       sync.Mutex
	toasts   []Toast
	nextID   int64
	duration time.Duration
	now      func() time.Time
}

func NewCenter(duration time.Duration) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Center{duration: duration, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (c *Center) WithClock(now func() time.Time) *Center {
	c.now = now
	return c
}

func (c *Center) Success(message string) {
	c.push(LevelSuccess, message)
}

// Error logs the cause and shows only the message.
func (c *Center) Error(message string, err error) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	} else {
		log.Print(message)
	}
	c.push(LevelError, message)
}

func (c *Center) push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.nextID++
	c.toasts = append(c.pruneLocked(now), Toast{
		ID:        c.nextID,
		Level:     level,
		Message:   message,
		Action:    "Close",
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	})
}

// Active returns the toasts that have not dismissed yet, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toasts = c.pruneLocked(c.now())
	return append([]Toast(nil), c.toasts...)
}

// Dismiss closes one toast early.
func (c *Center) Dismiss(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) pruneLocked(now time.Time) []Toast {
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	return kept
}
