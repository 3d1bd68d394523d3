// Package notify delivers change notifications from the repository to
// interested observers. Delivery is fire-and-forget: Publish never blocks,
// a subscriber whose buffer is full misses the change, and nothing is replayed.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBuffer is the per-subscriber channel capacity used by Subscribe.
const DefaultBuffer = 16

// Change says that data under Target changed. Target is a path such as
// "/trips" or "/stops/4". Observers are expected to re-query, not to apply
// the change themselves.
type Change struct {
	ID     uuid.UUID `json:"id"`
	Target string    `json:"target"`
	At     time.Time `json:"at"`
}

// Publisher is the side of the hub the repository depends on.
type Publisher interface {
	Publish(target string)
}

// Hub fans changes out to subscribers. The zero value is not usable; call NewHub.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan Change
	nextID uint64
	now    func() time.Time
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Change), now: time.Now}
}

// Subscribe registers an observer. The returned cancel func unregisters it and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Change, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends a change for target to every subscriber without waiting.
func (h *Hub) Publish(target string) {
	c := Change{ID: uuid.New(), Target: target, At: h.now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribers returns the number of registered observers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Discard is a Publisher that drops every change.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(string) {}
