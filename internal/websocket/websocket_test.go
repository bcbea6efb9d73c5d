package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
)

// fakeState implements LiveStateProvider for testing
type fakeState struct {
	mu    sync.Mutex
	state *models.LiveState
	err   error
}

func (f *fakeState) CurrentState(ctx context.Context) (*models.LiveState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.err
}

// liveMessage mirrors WSMessage with a typed payload for decoding
type liveMessage struct {
	Type    string           `json:"type"`
	Payload models.LiveState `json:"payload"`
}

func startHub(t *testing.T, state LiveStateProvider) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := New(logger.New(), state)
	hub.Start(ctx)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readLive(t *testing.T, conn *websocket.Conn) liveMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg liveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub := New(logger.New(), &fakeState{})

	if hub.clients == nil || hub.done == nil {
		t.Error("expected client set and done channel to be initialized")
	}
	if hub.state == nil {
		t.Error("expected state provider to be set")
	}
}

func TestClient_OfferKeepsNewest(t *testing.T) {
	c := newClient(nil)

	for rev := int64(1); rev <= 5; rev++ {
		c.offer(&models.LiveState{Revision: rev})
	}
	if len(c.wake) != 1 {
		t.Errorf("expected one pending wakeup, got %d", len(c.wake))
	}
	if got := c.take(); got == nil || got.Revision != 5 {
		t.Fatalf("expected revision 5, got %+v", got)
	}
	if c.take() != nil {
		t.Error("slot should be empty after take")
	}
}

func TestClient_OfferInitialYieldsToBroadcast(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *Client)
		want    int64
	}{
		{"empty client takes initial", func(c *Client) {}, 1},
		{"pending broadcast wins", func(c *Client) { c.offer(&models.LiveState{Revision: 2}) }, 2},
		{"already sent wins", func(c *Client) {
			c.offer(&models.LiveState{Revision: 2})
			c.take()
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(nil)
			tt.prepare(c)
			c.offerInitial(&models.LiveState{Revision: 1})

			got := c.take()
			if tt.want == 0 {
				if got != nil {
					t.Errorf("expected nothing pending, got %+v", got)
				}
				return
			}
			if got == nil || got.Revision != tt.want {
				t.Errorf("expected revision %d, got %+v", tt.want, got)
			}
		})
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := newClient(nil)
	c.close()
	c.close()
	select {
	case <-c.quit:
	default:
		t.Error("quit should be closed")
	}
}

func TestServeWs_SendsCurrentStateOnConnect(t *testing.T) {
	state := &fakeState{state: &models.LiveState{
		Phase:          models.PhasePreview,
		SelectedCatIDs: []int{4},
		Revision:       7,
	}}
	_, server := startHub(t, state)

	conn := dial(t, server)
	msg := readLive(t, conn)
	if msg.Type != MsgLiveState {
		t.Fatalf("expected %s, got %s", MsgLiveState, msg.Type)
	}
	if msg.Payload.Revision != 7 || len(msg.Payload.SelectedCatIDs) != 1 {
		t.Errorf("unexpected payload: %+v", msg.Payload)
	}
}

func TestServeWs_StateErrorStillConnects(t *testing.T) {
	hub, server := startHub(t, &fakeState{err: errors.New("db down")})

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	hub.BroadcastLiveState(&models.LiveState{Phase: models.PhaseDrawn, Revision: 2})
	msg := readLive(t, conn)
	if msg.Payload.Phase != models.PhaseDrawn {
		t.Errorf("expected drawn broadcast, got %+v", msg.Payload)
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, server := startHub(t, &fakeState{state: &models.LiveState{Revision: 1}})

	a := dial(t, server)
	b := dial(t, server)
	readLive(t, a)
	readLive(t, b)
	waitForClients(t, hub, 2)

	hub.BroadcastLiveState(&models.LiveState{Phase: models.PhaseDrawn, Revision: 2, DrawID: "d1"})
	for _, conn := range []*websocket.Conn{a, b} {
		msg := readLive(t, conn)
		if msg.Payload.DrawID != "d1" || msg.Payload.Revision != 2 {
			t.Errorf("unexpected broadcast: %+v", msg.Payload)
		}
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, server := startHub(t, &fakeState{state: &models.LiveState{}})

	conn := dial(t, server)
	readLive(t, conn)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub, _ := startHub(t, nil)

	done := make(chan struct{})
	go func() {
		hub.BroadcastLiveState(&models.LiveState{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastLiveState blocked")
	}
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := New(logger.New(), nil)
	hub.Start(ctx)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	conn := dial(t, server)
	waitForClients(t, hub, 1)
	cancel()
	waitForClients(t, hub, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}

	// connections after stop are refused
	late := dial(t, server)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Error("expected late connection to be closed")
	}
}

func TestHub_BroadcastAfterStopReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := New(logger.New(), nil)
	hub.Start(ctx)
	cancel()
	<-hub.done

	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.BroadcastLiveState(&models.LiveState{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked after hub stopped")
	}
}
