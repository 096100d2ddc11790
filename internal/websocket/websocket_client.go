package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/internal/protocol"
	"github.com/luciancaetano/colonynet/message"
)

const (
	pingInterval = 54 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 256
)

var (
	ErrClosed      = errors.New(colonynet.ErrConnectionClosed)
	ErrCancelled   = errors.New(colonynet.ErrContextCancelled)
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Conn is one websocket session carrying framed messages. It is used for
// both ends: Dial returns the client side and Server hands out peers.
type Conn struct {
	id          string
	conn        *websocket.Conn
	remoteAddr  string
	ctx         context.Context
	cancel      context.CancelFunc
	sendCh      chan []byte
	mu          sync.RWMutex
	closed      bool
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

var _ colonynet.Connection = (*Conn)(nil)

func newConn(conn *websocket.Conn, remoteAddr string, limits *RateLimitConfig, logger *slog.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = slog.Default()
	}

	c := &Conn{
		id:          uuid.New().String(),
		conn:        conn,
		remoteAddr:  remoteAddr,
		ctx:         ctx,
		cancel:      cancel,
		sendCh:      make(chan []byte, sendBuffer),
		rateLimiter: limits.limiter(),
	}
	c.logger = logger.With("conn", c.id)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go c.writePump()

	return c
}

// DialConfig configures the client side of a session.
type DialConfig struct {
	URL              string
	Header           http.Header
	HandshakeTimeout time.Duration
	RateLimitConfig  *RateLimitConfig
	Logger           *slog.Logger
}

// Dial opens a session to the game server.
func Dial(ctx context.Context, cfg DialConfig) (*Conn, error) {
	dialer := *websocket.DefaultDialer
	if cfg.HandshakeTimeout > 0 {
		dialer.HandshakeTimeout = cfg.HandshakeTimeout
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", cfg.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	return newConn(conn, conn.RemoteAddr().String(), cfg.RateLimitConfig, cfg.Logger), nil
}

// ID returns a unique identifier for the session
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer's network address
func (c *Conn) RemoteAddr() string {
	return c.remoteAddr
}

// Context is cancelled once the session closes.
func (c *Conn) Context() context.Context {
	return c.ctx
}

// Send frames msg and queues it for the write pump.
func (c *Conn) Send(ctx context.Context, msg *message.Message) error {
	data, err := protocol.EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", colonynet.ErrFailedToEncode, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	// The read lock is held until the frame is queued so Close cannot
	// close sendCh underneath us.
	select {
	case c.sendCh <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrCancelled
	}
}

// Close closes the session with a normal closure.
func (c *Conn) Close() error {
	return c.CloseWithCode(websocket.CloseNormalClosure, "")
}

// CloseWithCode closes the session with a close code and optional reason
func (c *Conn) CloseWithCode(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()

	frame := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(time.Second))

	close(c.sendCh)
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// IsAlive returns true if the session is still open
func (c *Conn) IsAlive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// CheckRateLimit reports whether another inbound message is allowed.
func (c *Conn) CheckRateLimit() bool {
	if c.rateLimiter == nil {
		return true
	}
	return c.rateLimiter.Allow()
}

// Serve reads messages one at a time, hands each to h and sends back any
// reply. A rejected message is logged and the session carries on. Serve
// returns when ctx is cancelled, the session closes or the transport fails.
func (c *Conn) Serve(ctx context.Context, h colonynet.Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			_ = c.CloseWithCode(websocket.CloseGoingAway, "")
		case <-c.ctx.Done():
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				c.logger.Info("session closed by peer")
				_ = c.Close()
				return nil
			case c.ctx.Err() != nil:
				return nil
			}
			c.logger.Error("read failed", "error", err)
			_ = c.Close()
			return fmt.Errorf("read: %w", err)
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		if !c.CheckRateLimit() {
			c.logger.Warn("rate limit exceeded", "remote_addr", c.remoteAddr)
			_ = c.CloseWithCode(websocket.ClosePolicyViolation, "Rate limit exceeded")
			return ErrRateLimited
		}

		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			c.logger.Error("malformed frame", "error", err)
			_ = c.CloseWithCode(websocket.CloseProtocolError, colonynet.ErrInvalidMessageFormat)
			return fmt.Errorf("%s: %w", colonynet.ErrInvalidMessageFormat, err)
		}

		reply, err := h.Handle(ctx, c, msg)
		if err != nil {
			c.logger.Error("message rejected", "tag", msg.Tag, "error", err)
			continue
		}
		if reply.IsNone() {
			continue
		}
		if err := c.Send(ctx, reply.Message()); err != nil {
			c.logger.Error("reply failed", "tag", reply.Tag(), "error", err)
			return fmt.Errorf("reply to %s: %w", msg.Tag, err)
		}
	}
}

// writePump pumps frames from the send channel to the websocket connection
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.logger.Error("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
