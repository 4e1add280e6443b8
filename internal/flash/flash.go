package flash

import (
	"sync"
	"time"
)

// Kind distinguishes success notices from errors.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient message shown once after an action.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Description: description}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Kind: KindError, Title: title, Description: description}
}

// Store queues notifications per session until they are shown.
type Store struct {
	mu       sync.Mutex
	messages map[string]*queue
	now      func() time.Time
}

type queue struct {
	items   []Notification
	touched time.Time
}

func NewStore() *Store {
	return &Store{messages: make(map[string]*queue), now: time.Now}
}

// Push queues n for the session
func (s *Store) Push(sid string, n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.messages[sid]
	if !ok {
		q = &queue{}
		s.messages[sid] = q
	}
	q.items = append(q.items, n)
	q.touched = s.now()
}

// Pop retrieves and immediately deletes everything queued for the session
func (s *Store) Pop(sid string) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.messages[sid]
	if !ok {
		return nil
	}
	delete(s.messages, sid)
	return q.items
}

// Sweep drops queues nobody collected since cutoff.
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for sid, q := range s.messages {
		if q.touched.Before(cutoff) {
			delete(s.messages, sid)
			n++
		}
	}
	return n
}

// Len reports how many sessions have pending notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
