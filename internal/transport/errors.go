package transport

import "errors"

// Transport errors (§7): counters increment on these, and SocketError may
// trigger a socket recreate; neither is ever returned to a tick-loop caller.
var (
	ErrQueueOverflow = errors.New("transport: outbound queue overflow")
	ErrSocketError   = errors.New("transport: socket error")
)
