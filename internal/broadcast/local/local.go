package local

import (
	"context"
	"sync"

	"github.com/MrJamesThe3rd/bye2money/internal/broadcast"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

// Hub fans published changes out to every subscriber in the process. It
// stands in for a broker when several ledger services share one process,
// as in tests.
type Hub struct {
	mu   sync.Mutex
	subs map[int]func(broadcast.Message)
	next int
}

func New() *Hub {
	return &Hub{subs: make(map[int]func(broadcast.Message))}
}

func (h *Hub) Publish(_ context.Context, c ledger.Change) error {
	msg := broadcast.FromChange(c)

	h.mu.Lock()
	subs := make([]func(broadcast.Message), 0, len(h.subs))

	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}

	return nil
}

// Attach subscribes a handler, dispatching each message to it.
func (h *Hub) Attach(ctx context.Context, handler broadcast.Handler) func() {
	return h.Subscribe(func(m broadcast.Message) {
		_ = broadcast.Dispatch(ctx, handler, m)
	})
}

func (h *Hub) Subscribe(fn func(broadcast.Message)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs, id)
	}
}

var _ ledger.Broadcaster = (*Hub)(nil)
