package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := NewManager()
	m.Start(ctx)
	return m
}

func TestSendToUserReachesEveryDevice(t *testing.T) {
	m := startManager(t)

	phone := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	tablet := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	other := &Client{UserID: "u2", Send: make(chan []byte, 1)}
	m.Register <- phone
	m.Register <- tablet
	m.Register <- other

	require.Eventually(t, func() bool { return m.ConnectionCount() == 3 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, m.SendToUser("u1", []byte("hi")))
	assert.Equal(t, "hi", string(<-phone.Send))
	assert.Equal(t, "hi", string(<-tablet.Send))
	assert.Empty(t, other.Send)

	assert.Equal(t, 0, m.SendToUser("nobody", []byte("hi")))
}

func TestSlowClientIsDropped(t *testing.T) {
	m := startManager(t)

	slow := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	m.Register <- slow
	require.Eventually(t, func() bool { return m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, m.SendToUser("u1", []byte("one")))
	assert.Equal(t, 0, m.SendToUser("u1", []byte("two")))
	assert.False(t, m.IsOnline("u1"))

	// buffered frame is still readable, then the channel is closed
	assert.Equal(t, "one", string(<-slow.Send))
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestUnregisterClosesSend(t *testing.T) {
	m := startManager(t)

	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	m.Register <- c
	m.Unregister <- c

	require.Eventually(t, func() bool { return !m.IsOnline("u1") }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is a no-op
	m.Unregister <- c
}

func TestLeaveAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)

	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	require.True(t, m.Join(c))
	require.Eventually(t, func() bool { return m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return m.ConnectionCount() == 0 }, time.Second, 5*time.Millisecond)

	left := make(chan struct{})
	go func() {
		m.Leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked after shutdown")
	}

	late := &Client{UserID: "u2", Send: make(chan []byte, 1)}
	assert.False(t, m.Join(late))
	assert.False(t, m.IsOnline("u2"))
}

func TestHandleIncoming(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal(HandleIncoming([]byte(`{"type":"ping"}`)), &e))
	assert.Equal(t, EventPong, e.Type)

	require.NoError(t, json.Unmarshal(HandleIncoming([]byte(`{"type":"subscribe"}`)), &e))
	assert.Equal(t, EventError, e.Type)

	require.NoError(t, json.Unmarshal(HandleIncoming([]byte(`not json`)), &e))
	assert.Equal(t, EventError, e.Type)

	assert.Nil(t, HandleIncoming([]byte(`{}`)))
}
