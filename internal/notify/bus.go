package notify

import (
	"sync"
	"time"

	"probectl/internal/domain"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays active when no deadline is given
const DefaultTTL = 5 * time.Second

// EventType describes what happened to a notification
type EventType string

const (
	EventPublished EventType = "published"
	EventDismissed EventType = "dismissed"
	EventExpired   EventType = "expired"
)

// Event is delivered to subscribers on every change of the active set
type Event struct {
	Type         EventType
	Notification domain.Notification
}

// Publisher publishes notifications
type Publisher interface {
	Publish(n domain.Notification) domain.Notification
}

// Bus fans out transient notifications to any number of subscribers.
// Every published notification is removed from the active set when its deadline passes.
type Bus struct {
	ttl time.Duration
	now func() time.Time

	mu          sync.Mutex
	active      []domain.Notification
	timers      map[string]*time.Timer
	subscribers map[int]chan Event
	nextSub     int
	closed      bool
}

// NewBus creates a Bus whose notifications expire after ttl (DefaultTTL if ttl <= 0)
func NewBus(ttl time.Duration) *Bus {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Bus{
		ttl:         ttl,
		now:         time.Now,
		timers:      make(map[string]*time.Timer),
		subscribers: make(map[int]chan Event),
	}
}

// Publish assigns an id and creation time when absent, adds the notification to the
// active set and notifies subscribers. The stored notification is returned.
func (b *Bus) Publish(n domain.Notification) domain.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}
	if n.ExpiresAt.IsZero() {
		n.ExpiresAt = n.CreatedAt.Add(b.ttl)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return n
	}

	// republishing an active id replaces the old entry and its timer
	b.remove(n.ID)
	b.active = append(b.active, n)
	wait := n.ExpiresAt.Sub(b.now())
	if wait < 0 {
		wait = 0
	}
	id := n.ID
	var timer *time.Timer
	timer = time.AfterFunc(wait, func() { b.expire(id, timer) })
	b.timers[id] = timer
	b.broadcast(Event{Type: EventPublished, Notification: n})
	return n
}

// Dismiss removes a notification before its deadline. It returns false if id is not active.
func (b *Bus) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.remove(id)
	if !ok {
		return false
	}
	b.broadcast(Event{Type: EventDismissed, Notification: n})
	return true
}

// Active returns a copy of the active notifications, oldest first
func (b *Bus) Active() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Notification, len(b.active))
	copy(out, b.active)
	return out
}

// Subscribe registers a subscriber with the given channel buffer. Events that do not fit
// in the buffer are dropped for that subscriber. The returned func unsubscribes.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	if b.closed {
		close(ch)
	} else {
		b.subscribers[id] = ch
	}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close stops all expiry timers and closes every subscriber channel
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

// expire ignores timers that were replaced after they fired
func (b *Bus) expire(id string, timer *time.Timer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timers[id] != timer {
		return
	}
	n, ok := b.remove(id)
	if !ok {
		return
	}
	b.broadcast(Event{Type: EventExpired, Notification: n})
}

// remove must be called with b.mu held
func (b *Bus) remove(id string) (domain.Notification, bool) {
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	for i, n := range b.active {
		if n.ID == id {
			b.active = append(b.active[:i], b.active[i+1:]...)
			return n, true
		}
	}
	return domain.Notification{}, false
}

// broadcast must be called with b.mu held
func (b *Bus) broadcast(ev Event) {
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
