package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/market_viewer/internal/domain"
)

func TestBoard_PublishAndLatest(t *testing.T) {
	b := NewBoard()
	assert.Empty(t, b.Latest().Records)

	now := time.Now()
	b.Publish(Snapshot{CycleID: "c1", UpdatedAt: now, Records: []*domain.PriceRecord{{Symbol: "XRP"}}})

	got := b.Latest()
	assert.Equal(t, "c1", got.CycleID)
	assert.Equal(t, now, got.UpdatedAt)
	require.Len(t, got.Records, 1)
}

func TestBoard_SubscribeReceivesUpdates(t *testing.T) {
	b := NewBoard()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(Snapshot{CycleID: "c1"})

	select {
	case s := <-ch:
		assert.Equal(t, "c1", s.CycleID)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestBoard_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBoard()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		b.Publish(Snapshot{CycleID: "c1"})
		b.Publish(Snapshot{CycleID: "c2"})
		b.Publish(Snapshot{CycleID: "c3"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Equal(t, "c1", (<-ch).CycleID)
	assert.Equal(t, "c3", b.Latest().CycleID)
}

func TestBoard_Unsubscribe(t *testing.T) {
	b := NewBoard()
	ch, cancel := b.Subscribe(0)
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, b.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	b.Publish(Snapshot{CycleID: "after"})
}
