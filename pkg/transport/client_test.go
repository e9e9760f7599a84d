package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-home/lumen-go/pkg/model"
	"github.com/lumen-home/lumen-go/pkg/wire"
)

const (
	hubUser     = "admin"
	hubPassword = "hunter2"
	hubSalt     = "a1b2c3d4e5f60718"
	hubNonce    = "00112233445566778899aabbccddeeff"
)

// fakeHub is a minimal websocket hub: it serves the auth handshake,
// optionally pushes a structure after a successful login, and records
// every other inbound frame.
type fakeHub struct {
	t          *testing.T
	rejectAuth bool
	structure  string

	mu     sync.Mutex
	frames []string
}

func (h *fakeHub) recordedFrames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.frames...)
}

func (h *fakeHub) handler() http.Handler {
	upgrader := websocket.Upgrader{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frame := string(data)

			switch {
			case frame == frameGetKey:
				reply, _ := json.Marshal(envelope{AuthKey: &authChallenge{
					Salt:       hubSalt,
					Challenge:  hubNonce,
					Iterations: 100,
				}})
				if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
					return
				}

			case strings.HasPrefix(frame, authPrefix+"/"):
				want, err := deriveToken(hubUser, hubPassword, authChallenge{
					Salt:       hubSalt,
					Challenge:  hubNonce,
					Iterations: 100,
				})
				require.NoError(h.t, err)

				status := statusOK
				if h.rejectAuth || frame != authPrefix+"/"+hubUser+"/"+want {
					status = http.StatusUnauthorized
				}
				reply, _ := json.Marshal(map[string]int{"status": status})
				if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
					return
				}
				if status == statusOK && h.structure != "" {
					if err := conn.WriteMessage(websocket.TextMessage, []byte(h.structure)); err != nil {
						return
					}
				}

			default:
				h.mu.Lock()
				h.frames = append(h.frames, frame)
				h.mu.Unlock()
			}
		}
	})
}

func startHub(t *testing.T, hub *fakeHub) (addr string) {
	t.Helper()
	hub.t = t
	srv := httptest.NewServer(hub.handler())
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func connect(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { _ = c.Close() })
}

const testStructure = `{
	"hubInfo": {"serialNr": "504F11223344", "hubName": "Casa"},
	"controls": {
		"0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f": {
			"uuidAction": "0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f",
			"name": "Living Room",
			"type": "LightController"
		}
	}
}`

func TestClientConnectAndSendAction(t *testing.T) {
	hub := &fakeHub{structure: testStructure}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})

	structures := make(chan *wire.StructureFile, 1)
	c.OnStructure(func(sf *wire.StructureFile) { structures <- sf })

	connect(t, c)
	assert.Equal(t, StateConnected, c.State())

	select {
	case sf := <-structures:
		assert.Equal(t, "Casa", sf.HubInfo.Name)
		assert.Len(t, sf.Controls, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("no structure push received")
	}

	id := model.NewIdentity("0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f")
	require.NoError(t, c.SendAction(id, "On"))

	require.Eventually(t, func() bool {
		return len(hub.recordedFrames()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f/On", hub.recordedFrames()[0])
}

func TestClientAuthFailure(t *testing.T) {
	hub := &fakeHub{rejectAuth: true}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})
	defer c.Close()

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestClientWrongPassword(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: "nope"})
	defer c.Close()

	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestClientSendActionNotConnected(t *testing.T) {
	c := New(Config{Address: "127.0.0.1:1"})
	err := c.SendAction(model.NewIdentity("0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f"), "On")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClientConnectTwice(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})
	connect(t, c)

	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestClientConnectConcurrent(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})
	t.Cleanup(func() { _ = c.Close() })

	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	connected := 0
	for _, err := range errs {
		if err == nil {
			connected++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyConnected)
	}
	assert.Equal(t, 1, connected, "exactly one Connect must win")
	assert.Equal(t, StateConnected, c.State())
}

func TestClientKeepalive(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{
		Address:   addr,
		Path:      "/",
		User:      hubUser,
		Password:  hubPassword,
		KeepAlive: 20 * time.Millisecond,
	})
	connect(t, c)

	require.Eventually(t, func() bool {
		for _, f := range hub.recordedFrames() {
			if f == frameKeepalive {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

func TestClientClose(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})
	connect(t, c)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "second close must be a no-op")

	assert.Equal(t, StateClosed, c.State())
	assert.ErrorIs(t, c.Connect(context.Background()), ErrClosed)
	assert.ErrorIs(t, c.SendAction(model.NewIdentity("x"), "On"), ErrNotConnected)
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c := New(Config{Address: "127.0.0.1:1"})
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, StateClosed, c.State())
}

func TestClientStateChangeCallback(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	var mu sync.Mutex
	var states []State

	c := New(Config{Address: addr, Path: "/", User: hubUser, Password: hubPassword})
	c.OnStateChange(func(_, next State) {
		mu.Lock()
		states = append(states, next)
		mu.Unlock()
	})
	connect(t, c)

	mu.Lock()
	got := append([]State(nil), states...)
	mu.Unlock()
	assert.Equal(t, []State{StateConnecting, StateConnected}, got)
}

func TestClientReconnect(t *testing.T) {
	hub := &fakeHub{}
	addr := startHub(t, hub)

	c := New(Config{
		Address:       addr,
		Path:          "/",
		User:          hubUser,
		Password:      hubPassword,
		AutoReconnect: true,
		Backoff: BackoffConfig{
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     50 * time.Millisecond,
			NoJitter:     true,
		},
	})

	reconnected := make(chan struct{}, 1)
	c.OnStateChange(func(old, next State) {
		if old == StateReconnecting && next == StateConnected {
			select {
			case reconnected <- struct{}{}:
			default:
			}
		}
	})
	connect(t, c)

	// Drop the connection from the hub side; the client should redial
	// and authenticate again on its own.
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	require.NoError(t, conn.Close())

	select {
	case <-reconnected:
	case <-time.After(5 * time.Second):
		t.Fatal("client did not reconnect")
	}
	assert.Equal(t, StateConnected, c.State())

	id := model.NewIdentity("0f86a2fe-0378-3e15-ffff-1b1a2f3d4e5f")
	require.NoError(t, c.SendAction(id, "Off"))
}
