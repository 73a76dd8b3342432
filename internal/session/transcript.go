package session

import (
	"sync"
	"time"
)

// Role says who wrote a transcript message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleAssistant {
		return "NERO"
	}
	return "You"
}

// Message is one transcript entry.
type Message struct {
	Role Role
	Text string
	Time time.Time
}

// Stamp formats the message time as HH:MM.
func (m Message) Stamp() string {
	return m.Time.Format("15:04")
}

// DefaultVisible is the window size used when NewTranscript is given a non-positive one.
const DefaultVisible = 12

// Transcript is the conversation log with a scroll window that follows the newest message.
// It is written by turn goroutines and read by the render loop.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	offset   int
	visible  int
	now      func() time.Time
}

// NewTranscript keeps up to visible messages in view. now defaults to time.Now.
func NewTranscript(visible int, now func() time.Time) *Transcript {
	if visible < 1 {
		visible = DefaultVisible
	}
	if now == nil {
		now = time.Now
	}
	return &Transcript{visible: visible, now: now}
}

// Add appends a message stamped with the current time and scrolls to the bottom.
func (t *Transcript) Add(role Role, text string) Message {
	m := Message{Role: role, Text: text, Time: t.now()}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
	if len(t.messages) > t.visible {
		t.offset = len(t.messages) - t.visible
	}
	return m
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Offset returns the index of the first visible message.
func (t *Transcript) Offset() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offset
}

// Messages returns a copy of the whole log.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.messages...)
}

// Visible returns a copy of the messages inside the scroll window, oldest first.
func (t *Transcript) Visible() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	end := min(t.offset+t.visible, len(t.messages))
	return append([]Message(nil), t.messages[t.offset:end]...)
}

// Scroll moves the window by delta messages, staying inside the log.
func (t *Transcript) Scroll(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = max(0, min(t.offset+delta, len(t.messages)-t.visible))
}
