package service

import (
	"sync"

	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/metrics"
)

// hub fans messages out to stream subscribers. Slow subscribers lose messages
// instead of blocking the publisher.
type hub struct {
	mu      sync.Mutex
	subs    map[uint64]chan types.Message
	next    uint64
	buffer  int
	dropped uint64
}

func newHub(buffer int) *hub {
	return &hub{subs: make(map[uint64]chan types.Message), buffer: buffer}
}

func (h *hub) subscribe() (<-chan types.Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan types.Message, h.buffer)
	h.subs[id] = ch
	metrics.UpdateStreamClients(len(h.subs))

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
				metrics.UpdateStreamClients(len(h.subs))
			}
		})
	}
}

func (h *hub) publish(m types.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- m:
		default:
			h.dropped++
		}
	}
}

func (h *hub) clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *hub) droppedCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// closeAll ends every subscription.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	metrics.UpdateStreamClients(0)
}
