// Package ws is the public entry point to the websocket transport: Dial
// connects a client session and NewServer accepts peers.
package ws

import (
	"context"
	"net/http"

	"github.com/luciancaetano/colonynet/internal/websocket"
)

type (
	Conn            = websocket.Conn
	Server          = websocket.Server
	DialConfig      = websocket.DialConfig
	ServerConfig    = websocket.ServerConfig
	RateLimitConfig = websocket.RateLimitConfig
	CheckOriginFn   = websocket.CheckOriginFn
	OnConnectFn     = websocket.OnConnectFn
	OnDisconnectFn  = websocket.OnDisconnectFn
)

var (
	ErrClosed       = websocket.ErrClosed
	ErrRateLimited  = websocket.ErrRateLimited
	ErrPeerNotFound = websocket.ErrPeerNotFound
)

// Dial opens a client session to the game server.
//
// Example:
//
//	conn, err := ws.Dial(ctx, ws.DialConfig{URL: "ws://localhost:8080/ws"})
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//	return conn.Serve(ctx, dispatcher)
func Dial(ctx context.Context, cfg DialConfig) (*Conn, error) {
	return websocket.Dial(ctx, cfg)
}

// NewServer creates a server that serves every peer with cfg.Handler.
func NewServer(cfg *ServerConfig) (*Server, error) {
	return websocket.NewServer(cfg)
}

// AllOrigins returns a checkOrigin function that allows all origins (dev only).
func AllOrigins() CheckOriginFn {
	return func(r *http.Request) bool {
		return true
	}
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return websocket.DefaultRateLimitConfig()
}

// NoRateLimit returns a configuration with rate limiting disabled
func NoRateLimit() *RateLimitConfig {
	return websocket.NoRateLimit()
}
