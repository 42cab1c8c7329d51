package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client without a live connection. Register,
// Unregister and Broadcast never touch the conn, so nil is fine here.
func newTestClient(h *Hub, roomID, userID uint64) *Client {
	return NewClient(h, nil, roomID, userID)
}

func TestRegisterAndRoomSize(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.RoomSize(1))

	a := newTestClient(h, 1, 10)
	b := newTestClient(h, 1, 11)
	c := newTestClient(h, 2, 12)
	h.Register(a)
	h.Register(b)
	h.Register(c)

	assert.Equal(t, 2, h.RoomSize(1))
	assert.Equal(t, 1, h.RoomSize(2))
}

func TestUnregisterClosesSendAndDropsEmptyRoom(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1, 10)
	h.Register(a)
	h.Unregister(a)

	assert.Equal(t, 0, h.RoomSize(1))
	_, open := <-a.send
	assert.False(t, open, "send channel must be closed on unregister")

	// The room entry itself is gone, not just emptied.
	h.mu.RLock()
	_, ok := h.rooms[1]
	h.mu.RUnlock()
	assert.False(t, ok)
}

func TestUnregisterUnknownClientIsNoOp(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1, 10)
	// Never registered; must not panic or close anything twice.
	h.Unregister(a)
	h.Unregister(nil)

	select {
	case <-a.send:
		t.Fatal("send channel should remain open")
	default:
	}
}

func TestBroadcastSkipsSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(h, 1, 10)
	peer := newTestClient(h, 1, 11)
	other := newTestClient(h, 2, 12)
	h.Register(sender)
	h.Register(peer)
	h.Register(other)

	h.Broadcast(1, []byte("hello"), sender)

	require.Len(t, peer.send, 1)
	assert.Equal(t, []byte("hello"), <-peer.send)
	assert.Empty(t, sender.send)
	assert.Empty(t, other.send, "other rooms must not receive the frame")
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	slow := newTestClient(h, 1, 10)
	h.Register(slow)

	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("fill")
	}

	// Must return promptly instead of blocking on the stuck client.
	h.Broadcast(1, []byte("late"), nil)
	assert.Len(t, slow.send, cap(slow.send))
}
