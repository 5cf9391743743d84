package realtime

import (
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriber struct {
	mu        sync.Mutex
	subscribe int
	cancelled int
}

func (f *fakeSubscriber) SubscribeFeed(uuid.UUID, func(string, []byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribe++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancelled++
	}, nil
}

func newTestClient(id string, eventID uuid.UUID) *Client {
	return &Client{ID: id, EventID: eventID, send: make(chan WSMessage, 8)}
}

func TestBroadcastDeliversToRoom(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, nil)
	eventID := uuid.New()
	watcher := newTestClient("a", eventID)
	other := newTestClient("b", uuid.New())
	h.Register(watcher)
	h.Register(other)

	h.Broadcast(eventID, EventCheckin, map[string]string{"guest_name": "Ana"})

	select {
	case msg := <-watcher.send:
		assert.Equal(t, EventCheckin, msg.Event)
	default:
		t.Fatal("watcher did not receive the broadcast")
	}
	assert.Empty(t, other.send)
}

func TestBroadcastDuringConcurrentJoins(t *testing.T) {
	h := NewHub(zap.NewNop(), nil, nil)
	eventID := uuid.New()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		c := newTestClient(strconv.Itoa(i), eventID)
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Register(c)
		}()
		go func() {
			defer wg.Done()
			h.Broadcast(eventID, EventCheckin, map[string]int{"seq": 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, n, h.WatcherCount(eventID))
}

func TestSubscriptionFollowsRoomLifecycle(t *testing.T) {
	sub := &fakeSubscriber{}
	h := NewHub(zap.NewNop(), nil, sub)
	eventID := uuid.New()
	first := newTestClient("a", eventID)
	second := newTestClient("b", eventID)

	h.Register(first)
	h.Register(second)
	require.Equal(t, 1, sub.subscribe, "one subscription per room")

	h.Unregister(first)
	assert.Equal(t, 0, sub.cancelled, "room still has a watcher")
	h.Unregister(second)
	assert.Equal(t, 1, sub.cancelled, "last watcher leaving cancels the subscription")
	assert.Zero(t, h.WatcherCount(eventID))
}
