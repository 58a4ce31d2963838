package brackets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishesToRoomSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, RoomID(7))
		if !hub.Join(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(RoomID(7)) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: EventNotificationSent, TournamentID: 8, Payload: "other room"})
	hub.Publish(Event{Type: EventTournamentUpdated, TournamentID: 7, Payload: map[string]int{"id": 7}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type         string         `json:"type"`
		TournamentID int            `json:"tournament_id"`
		Payload      map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventTournamentUpdated, got.Type)
	assert.Equal(t, 7, got.TournamentID)
	assert.Equal(t, 7, got.Payload["id"])
}

func TestHubKeepsPublishOrderWhenQueueIsFull(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, RoomID(3))
	require.True(t, hub.Join(client))

	const total = 100
	published := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			hub.Publish(Event{Type: EventTournamentUpdated, TournamentID: 3, Payload: i})
		}
		close(published)
	}()

	require.Eventually(t, func() bool { return len(hub.Broadcast) == cap(hub.Broadcast) }, time.Second, 5*time.Millisecond)
	assert.Empty(t, client.Send)

	go hub.Run()
	defer hub.Stop()
	<-published

	for i := 0; i < total; i++ {
		var got struct {
			Payload int `json:"payload"`
		}
		select {
		case data := <-client.Send:
			require.NoError(t, json.Unmarshal(data, &got))
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not delivered", i)
		}
		assert.Equal(t, i, got.Payload)
	}
}

func TestHubCallsReturnAfterStop(t *testing.T) {
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()
	hub.Stop()
	<-stopped

	client := NewClient(hub, nil, RoomID(1))
	done := make(chan bool)
	go func() {
		joined := hub.Join(client)
		hub.Publish(Event{Type: EventTournamentUpdated, TournamentID: 1})
		hub.Leave(client)
		done <- joined
	}()

	select {
	case joined := <-done:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("hub call blocked after Stop")
	}
}

func TestRoomID(t *testing.T) {
	assert.Equal(t, "tournament-12", RoomID(12))
}
