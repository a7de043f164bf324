package usecase

import (
	"sync"
	"time"

	"github.com/vitos/market_viewer/internal/domain"
)

// Snapshot is what presentation layers render: the last cycle's records
// and when they were refreshed.
type Snapshot struct {
	CycleID   string                `json:"cycle_id"`
	UpdatedAt time.Time             `json:"updated_at"`
	Records   []*domain.PriceRecord `json:"records"`
}

// Board keeps the latest snapshot and pushes every new one to
// subscribers. Records are treated as read-only once published.
type Board struct {
	mu     sync.RWMutex
	latest Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

func NewBoard() *Board {
	return &Board{subs: make(map[int]chan Snapshot)}
}

func (b *Board) Latest() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Publish replaces the current snapshot. Subscribers whose buffer is full
// miss this update rather than stall the poller.
func (b *Board) Publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = s
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Subscribe returns a channel of future snapshots and a func that
// unsubscribes and closes it.
func (b *Board) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Board) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
