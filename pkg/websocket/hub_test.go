package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	first := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 1}
	second := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 2}
	require.NoError(t, hub.Register(first))
	require.NoError(t, hub.Register(second))

	require.NoError(t, hub.Broadcast(MessageChartChanged, ChartChangedPayload{Reason: "reorganized", PersonID: 7}))

	for _, c := range []*Client{first, second} {
		select {
		case raw := <-c.Send:
			var envelope struct {
				Type    string              `json:"type"`
				Payload ChartChangedPayload `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(raw, &envelope))
			assert.Equal(t, MessageChartChanged, envelope.Type)
			assert.Equal(t, uint64(7), envelope.Payload.PersonID)
		case <-time.After(time.Second):
			t.Fatalf("клиент %d не получил сообщение", c.UserID)
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	slow := &Client{Hub: hub, Send: make(chan []byte), UserID: 3}
	require.NoError(t, hub.Register(slow))
	require.Equal(t, 1, hub.ClientCount())

	require.NoError(t, hub.Broadcast(MessageChartChanged, ChartChangedPayload{PersonID: 1}))
	// Broadcast ждет, пока Run заберет сообщение; второй вызов гарантирует, что первое обработано
	require.NoError(t, hub.Broadcast(MessageChartChanged, ChartChangedPayload{PersonID: 2}))

	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-slow.Send
	assert.False(t, open)
	assert.Equal(t, websocket.CloseTryAgainLater, slow.closeCode)
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: 5}
	require.NoError(t, hub.Register(client))
	cancel()
	<-stopped

	_, open := <-client.Send
	assert.False(t, open)
	assert.Equal(t, websocket.CloseGoingAway, client.closeCode)

	assert.ErrorIs(t, hub.Broadcast(MessageChartChanged, ChartChangedPayload{PersonID: 1}), ErrHubStopped)
	assert.ErrorIs(t, hub.Register(&Client{Hub: hub, Send: make(chan []byte)}), ErrHubStopped)
	hub.Unregister(client)
}
