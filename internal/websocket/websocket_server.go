package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/luciancaetano/colonynet"
	"github.com/luciancaetano/colonynet/message"
)

// CheckOriginFn validates the origin of an upgrade request.
type CheckOriginFn = func(r *http.Request) bool

// OnConnectFn is called after the handshake and before the read loop of
// the new peer starts. It runs synchronously during connection setup.
type OnConnectFn = func(peer *Conn)

// OnDisconnectFn is called once a peer's read loop has ended. voluntary is
// true when the peer closed the session itself.
type OnDisconnectFn = func(peer *Conn, voluntary bool)

var ErrPeerNotFound = errors.New(colonynet.ErrPeerNotFound)

// ServerConfig configures a Server. Handler is required.
type ServerConfig struct {
	Addr            string
	Path            string
	RateLimitConfig *RateLimitConfig
	CheckOrigin     CheckOriginFn
	Handler         colonynet.Handler
	OnConnect       OnConnectFn
	OnDisconnect    OnDisconnectFn
	Logger          *slog.Logger
}

// Server accepts websocket peers and serves each with the configured
// Handler. It is the game-server side of the protocol and is used to
// drive clients in tests and local play.
type Server struct {
	addr            string
	path            string
	server          *http.Server
	peers           sync.Map // map[string]*Conn
	handler         colonynet.Handler
	rateLimitConfig *RateLimitConfig
	logger          *slog.Logger

	mu           sync.RWMutex
	running      bool
	upgrader     websocket.Upgrader
	onConnect    OnConnectFn
	onDisconnect OnDisconnectFn
}

// NewServer builds a server from cfg. A nil RateLimitConfig means
// DefaultRateLimitConfig and an empty Path means "/ws".
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil || cfg.Handler == nil {
		return nil, errors.New("server handler is required")
	}
	limits := cfg.RateLimitConfig
	if limits == nil {
		limits = DefaultRateLimitConfig()
	}
	path := cfg.Path
	if path == "" {
		path = "/ws"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:            cfg.Addr,
		path:            path,
		handler:         cfg.Handler,
		rateLimitConfig: limits,
		logger:          logger,
		onConnect:       cfg.OnConnect,
		onDisconnect:    cfg.OnDisconnect,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}, nil
}

// Handler returns the HTTP handler serving the websocket endpoint, for
// mounting on an existing mux or an httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWebSocket)
	return mux
}

// Start listens on the configured address in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New(colonynet.ErrServerAlreadyRunning)
	}
	s.running = true
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	srv := s.server
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("listen %s: %w", s.addr, err)
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(stopCtx)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Stop closes every peer and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	srv := s.server
	s.mu.Unlock()

	s.peers.Range(func(_, value any) bool {
		if peer, ok := value.(*Conn); ok {
			_ = peer.CloseWithCode(websocket.CloseGoingAway, "server shutting down")
		}
		return true
	})

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	peer := newConn(conn, r.RemoteAddr, s.rateLimitConfig, s.logger)
	s.peers.Store(peer.ID(), peer)

	go s.servePeer(peer)
}

func (s *Server) servePeer(peer *Conn) {
	if s.onConnect != nil {
		s.onConnect(peer)
	}

	err := peer.Serve(peer.Context(), s.handler)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Info("peer session ended", "conn", peer.ID(), "error", err)
	}

	_ = peer.Close()
	s.peers.Delete(peer.ID())
	if s.onDisconnect != nil {
		s.onDisconnect(peer, err == nil)
	}
}

// Peer returns a connected peer by ID.
func (s *Server) Peer(id string) (*Conn, bool) {
	if v, ok := s.peers.Load(id); ok {
		return v.(*Conn), true
	}
	return nil, false
}

// Send delivers msg to one peer.
func (s *Server) Send(ctx context.Context, peerID string, msg *message.Message) error {
	peer, ok := s.Peer(peerID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeerNotFound, peerID)
	}
	return peer.Send(ctx, msg)
}

// Broadcast delivers msg to every connected peer and returns the first
// failure, if any.
func (s *Server) Broadcast(ctx context.Context, msg *message.Message) error {
	var first error
	s.peers.Range(func(_, value any) bool {
		if peer, ok := value.(*Conn); ok {
			if err := peer.Send(ctx, msg); err != nil && first == nil {
				first = fmt.Errorf("send to %s: %w", peer.ID(), err)
			}
		}
		return true
	})
	return first
}
