// Package colonynet is the client side of a turn-based colonisation game
// protocol: it receives server messages over a WebSocket, keeps a local
// replica of the game model and drives a controller and a view from them.
//
// # Architecture
//
// Every inbound frame carries one message, a tagged node with string
// attributes and ordered children. The dispatcher looks the tag up in the
// table of the current phase and runs its handler:
//
//	conn.Serve(ctx, dispatcher)
//	    -> dispatch.Dispatcher.Handle(ctx, conn, msg)
//	        -> pre-session or in-session handler
//	            -> model updates (any goroutine)
//	            -> gateway.RunLater / RunAndWait (UI context)
//	    <- message.Reply sent back on the same connection
//
// Handlers produce at most one reply. Success and error acknowledgements
// carry a text, domain replies carry a full message, and a "multiple"
// message yields a single combined reply for all of its children.
//
// The client starts in the pre-session phase (lobby, options, nation
// selection) and switches to the in-session phase when the server starts
// the game. Only the tags of the current phase are accepted.
//
// # Threading
//
// Handlers run on the connection's read goroutine, one message at a time.
// Model state is guarded per entity and may be read or merged anywhere.
// Everything that touches presentation state goes through the gateway:
// effects that need no answer are queued with RunLater, decisions that
// become part of the reply block on RunAndWait.
//
// # Protocol Format
//
//	[4 bytes: CommandID (uint32, big-endian)][N bytes: Payload]
//
// Messages travel under CommandID 0x00000001 as a JSON tree:
//
//	{"tag":"newTurn","attrs":{"turn":"12"},"children":[...]}
//
// Maximum payload: 10MB. Frames with any other command are rejected and
// the connection is closed with code 1002 (Protocol Error).
//
// # Rate Limiting
//
// Each connection has an inbound token bucket:
//
//	cfg := ws.DialConfig{
//	    URL:             "ws://localhost:8080/ws",
//	    RateLimitConfig: ws.DefaultRateLimitConfig(), // 100 msgs/s, burst 200
//	}
//	conn, err := ws.Dial(ctx, cfg)
//
// When the limit is exceeded the connection is closed with code 1008
// (Policy Violation).
//
// # Packages
//
//   - message: the node type, typed attribute access and reply values
//   - model: the replicated game objects and the snapshot applier
//   - gateway: the hand-off queue to the UI context
//   - dispatch: phase tables and message handlers
//   - ws: WebSocket client and test server
//   - cmd/colonyclient: a headless client that plays with default decisions
package colonynet
