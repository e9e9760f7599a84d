package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lumen-home/lumen-go/pkg/log"
	"github.com/lumen-home/lumen-go/pkg/model"
	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Client errors.
var (
	// ErrNotConnected is returned by SendAction while the link is down.
	ErrNotConnected = errors.New("not connected to hub")

	// ErrAlreadyConnected is returned by Connect on a live client.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrClosed is returned by Connect after Close.
	ErrClosed = errors.New("client closed")

	// ErrAuthFailed is returned when the hub rejects the credentials.
	ErrAuthFailed = errors.New("hub rejected authentication")
)

// Handshake frame constants.
const (
	frameGetKey      = "getkey"
	frameKeepalive   = "keepalive"
	authPrefix       = "authenticate"
	statusOK         = 200
	defaultPath      = "/ws"
	defaultKeepalive = 2 * time.Minute
	defaultHSTimeout = 10 * time.Second
)

// Config configures a hub connection.
type Config struct {
	// Address is the hub's host:port.
	Address string

	// Path is the websocket endpoint path, "/ws" by default.
	Path string

	// UseTLS selects wss:// instead of ws://.
	UseTLS bool

	// User and Password authenticate against the hub's user database.
	User     string
	Password string

	// KeepAlive is the interval between keepalive frames. The hub drops
	// silent connections, so this should stay below its idle timeout.
	// Defaults to 2 minutes.
	KeepAlive time.Duration

	// HandshakeTimeout bounds dialing and the auth exchange.
	HandshakeTimeout time.Duration

	// AutoReconnect redials with backoff after a connection loss.
	AutoReconnect bool

	// Backoff paces the redial attempts.
	Backoff BackoffConfig

	// Logger receives protocol events; nil disables capture.
	Logger log.Logger
}

// Client is the command channel to one hub. It satisfies model.Commander
// and delivers the hub's full-state structure pushes to the OnStructure
// callback.
type Client struct {
	cfg     Config
	connID  string
	logger  log.Logger
	backoff *Backoff

	mu            sync.RWMutex
	conn          *websocket.Conn
	state         State
	closed        bool
	cancelRun     context.CancelFunc
	onStructure   func(*wire.StructureFile)
	onStateChange func(old, new State)

	// gorilla/websocket allows one concurrent writer per connection.
	writeMu sync.Mutex

	wg sync.WaitGroup
}

// Client is the transport side of the model's command contract.
var _ model.Commander = (*Client)(nil)

// New creates a client; it does not connect yet.
func New(cfg Config) *Client {
	if cfg.Path == "" {
		cfg.Path = defaultPath
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = defaultKeepalive
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHSTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	return &Client{
		cfg:     cfg,
		connID:  uuid.NewString(),
		logger:  logger,
		backoff: NewBackoff(cfg.Backoff),
		state:   StateDisconnected,
	}
}

// ConnectionID returns the client's capture-log identifier.
func (c *Client) ConnectionID() string {
	return c.connID
}

// OnStructure registers the callback for full-state structure pushes.
// It runs on the read goroutine; wire it to model.Hub.ApplyStructure.
func (c *Client) OnStructure(fn func(*wire.StructureFile)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStructure = fn
}

// OnStateChange registers a callback for connection state transitions.
func (c *Client) OnStateChange(fn func(old, new State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Connect dials the hub, authenticates, and starts the read and keepalive
// goroutines. ctx bounds only the initial dial; the connection itself
// lives until Close.
func (c *Client) Connect(ctx context.Context) error {
	// Guard and transition under one lock so concurrent Connect calls
	// cannot both pass the check and race to install a connection.
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	prev := c.state
	c.state = StateConnecting
	fn := c.onStateChange
	c.mu.Unlock()

	c.announceState(prev, StateConnecting, "", fn)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err.Error())
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.conn = conn
	c.cancelRun = cancel
	c.mu.Unlock()

	c.backoff.Reset()
	c.setState(StateConnected, "")

	c.wg.Add(1)
	go c.run(runCtx, conn)

	return nil
}

// Close terminates the connection and stops reconnecting. Safe to call
// more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancelRun
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	// Grab the connection after cancelling so a concurrent reconnect
	// cannot swap in a new one we would miss.
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	c.wg.Wait()

	c.setState(StateClosed, "")
	return nil
}

// SendAction addresses one action string to one identity. Fails with
// ErrNotConnected while the link is down; a failed write is returned
// without retry.
func (c *Client) SendAction(id model.Identity, action string) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	frame := id.String() + "/" + action

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.TextMessage, []byte(frame))
	c.writeMu.Unlock()

	if err != nil {
		c.logError("send", err)
		return fmt.Errorf("failed to send action: %w", err)
	}

	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionOut,
		Category:     log.CategoryAction,
		RemoteAddr:   c.cfg.Address,
		Control:      id.String(),
		Action:       action,
	})
	return nil
}

// dial opens the websocket and performs the auth handshake.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	scheme := "ws"
	if c.cfg.UseTLS {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: c.cfg.Address, Path: c.cfg.Path}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		c.logError("dial", err)
		return nil, fmt.Errorf("failed to dial hub at %s: %w", u.Host, err)
	}

	if err := c.authenticate(conn); err != nil {
		_ = conn.Close()
		c.logError("auth", err)
		return nil, err
	}

	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Category:     log.CategoryAuth,
		RemoteAddr:   c.cfg.Address,
	})
	return conn, nil
}

// authenticate runs the getkey/token exchange on a fresh connection.
func (c *Client) authenticate(conn *websocket.Conn) error {
	deadline := time.Now().Add(c.cfg.HandshakeTimeout)
	_ = conn.SetReadDeadline(deadline)
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(frameGetKey)); err != nil {
		return fmt.Errorf("failed to request auth key: %w", err)
	}

	var keyReply envelope
	if err := readEnvelope(conn, &keyReply); err != nil {
		return fmt.Errorf("failed to read auth key: %w", err)
	}
	if keyReply.AuthKey == nil {
		return fmt.Errorf("%w: hub sent no auth key", ErrAuthFailed)
	}

	token, err := deriveToken(c.cfg.User, c.cfg.Password, *keyReply.AuthKey)
	if err != nil {
		return err
	}

	frame := authPrefix + "/" + c.cfg.User + "/" + token
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("failed to send auth token: %w", err)
	}

	var result envelope
	if err := readEnvelope(conn, &result); err != nil {
		return fmt.Errorf("failed to read auth result: %w", err)
	}
	if result.Status != statusOK {
		return fmt.Errorf("%w: status %d %s", ErrAuthFailed, result.Status, result.Message)
	}
	return nil
}

// envelope probes a hub frame for its kind.
type envelope struct {
	AuthKey   *authChallenge  `json:"authKey,omitempty"`
	Status    int             `json:"status,omitempty"`
	Message   string          `json:"message,omitempty"`
	Keepalive bool            `json:"keepalive,omitempty"`
	Controls  json.RawMessage `json:"controls,omitempty"`
}

func readEnvelope(conn *websocket.Conn, env *envelope) error {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, env)
}

// run owns the connection: it serves the read loop and, when enabled,
// redials after a loss.
func (c *Client) run(ctx context.Context, conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		err := c.serve(ctx, conn)

		if ctx.Err() != nil || c.isClosed() {
			return
		}

		c.logError("read", err)

		if !c.cfg.AutoReconnect {
			c.setState(StateDisconnected, err.Error())
			return
		}
		c.setState(StateReconnecting, err.Error())

		conn = c.redial(ctx)
		if conn == nil {
			return
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		c.backoff.Reset()
		c.setState(StateConnected, "")
	}
}

// redial attempts to reconnect until success or cancellation.
func (c *Client) redial(ctx context.Context) *websocket.Conn {
	for {
		delay := c.backoff.Next()
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		conn, err := c.dial(ctx)
		if err == nil {
			return conn
		}
		// Auth rejection will not fix itself; stop retrying.
		if errors.Is(err, ErrAuthFailed) {
			c.setState(StateDisconnected, err.Error())
			return nil
		}
	}
}

// serve reads frames until the connection fails.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	kaCtx, stopKeepalive := context.WithCancel(ctx)
	defer stopKeepalive()
	go c.keepalive(kaCtx, conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			return err
		}
		c.handleFrame(data)
	}
}

// handleFrame dispatches one inbound frame.
func (c *Client) handleFrame(data []byte) {
	if string(data) == frameKeepalive {
		c.logKeepalive()
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logError("decode", err)
		return
	}

	switch {
	case env.Keepalive:
		c.logKeepalive()

	case len(env.Controls) > 0:
		sf, err := wire.DecodeBytes(data)
		if err != nil {
			c.logError("structure", err)
			return
		}

		c.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: c.connID,
			Direction:    log.DirectionIn,
			Category:     log.CategoryStructure,
			RemoteAddr:   c.cfg.Address,
			Structure: &log.StructureEvent{
				Bytes:    len(data),
				Controls: len(sf.Controls),
			},
		})

		c.mu.RLock()
		fn := c.onStructure
		c.mu.RUnlock()
		if fn != nil {
			fn(sf)
		}

	default:
		// Command acknowledgements and unknown frames are ignored.
	}
}

// keepalive sends periodic keepalive frames until the context ends.
func (c *Client) keepalive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, []byte(frameKeepalive))
		c.writeMu.Unlock()
		if err != nil {
			// The read loop sees the same failure and handles it.
			return
		}

		c.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: c.connID,
			Direction:    log.DirectionOut,
			Category:     log.CategoryKeepalive,
			RemoteAddr:   c.cfg.Address,
		})
	}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// setState transitions the connection state, logging and notifying.
func (c *Client) setState(next State, reason string) {
	c.mu.Lock()
	prev := c.state
	if prev == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	fn := c.onStateChange
	c.mu.Unlock()

	c.announceState(prev, next, reason, fn)
}

// announceState logs a state transition and notifies the callback. The
// caller has already swapped the state under c.mu.
func (c *Client) announceState(prev, next State, reason string, fn func(old, new State)) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Category:     log.CategoryConnection,
		RemoteAddr:   c.cfg.Address,
		StateChange: &log.StateChangeEvent{
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})

	if fn != nil {
		fn(prev, next)
	}
}

func (c *Client) logError(op string, err error) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Category:     log.CategoryError,
		RemoteAddr:   c.cfg.Address,
		Err:          &log.ErrorEvent{Op: op, Message: err.Error()},
	})
}

func (c *Client) logKeepalive() {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionIn,
		Category:     log.CategoryKeepalive,
		RemoteAddr:   c.cfg.Address,
	})
}
