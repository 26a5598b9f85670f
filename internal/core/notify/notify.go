// Package notify defines user-facing notification levels and a bounded
// in-memory history of published notifications.
package notify

import (
	"sync"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification event.
type Notification struct {
	ID        int64
	Level     Level
	Message   string
	CreatedAt time.Time
}

// DefaultLimit is the history size used when NewLog is given a non-positive limit.
const DefaultLimit = 50

// Log keeps the most recent notifications. Older entries are evicted once
// the limit is reached. Safe for concurrent use.
type Log struct {
	mu     sync.Mutex
	limit  int
	nextID int64
	items  []Notification
	now    func() time.Time
}

// NewLog creates a Log holding at most limit notifications.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, now: time.Now}
}

// Add records a notification and returns it with its assigned ID.
func (l *Log) Add(level Level, message string) Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	n := Notification{
		ID:        l.nextID,
		Level:     level,
		Message:   message,
		CreatedAt: l.now(),
	}

	l.items = append(l.items, n)
	if over := len(l.items) - l.limit; over > 0 {
		l.items = append(l.items[:0], l.items[over:]...)
	}
	return n
}

// List returns the retained notifications, oldest first.
func (l *Log) List() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.items))
	copy(out, l.items)
	return out
}

// Latest returns the newest notification, if any.
func (l *Log) Latest() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return Notification{}, false
	}
	return l.items[len(l.items)-1], true
}

// Count returns the number of retained notifications.
func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Clear drops all retained notifications. IDs keep increasing.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}
