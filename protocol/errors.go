// Package protocol implements C8 (the per-connection state machine)
// and C9 (the command codec) from spec.md §4.2: framing line-oriented
// memcache commands and multi-line set payloads over a streaming
// transport.
package protocol

import "errors"

/*
Three wire-facing error kinds, per spec.md §7:

  - InvalidCommand: unknown verb or malformed header -> ERROR
  - ClientError:    well-formed but semantically invalid -> CLIENT_ERROR <reason>
  - ServerError:    internal fault -> SERVER_ERROR <reason>

All three are recovered locally and never close the connection (spec
§7: "The TCP connection is not closed on protocol errors"). Krishna8167-
tempuscache has no analogous error taxonomy — this is built directly
from the wire contract, in the plain-errors style errors.go files favor
across the pack (e.g. calvinalkan-agent-task/errors.go: sentinel values
plus %w wrapping over a custom error-code framework).
*/

// ErrInvalidCommand is returned by ParseCommand for an unknown verb or
// a malformed header.
var ErrInvalidCommand = errors.New("protocol: invalid command")

// ClientError is a well-formed but semantically invalid request (e.g.
// a set payload whose size disagrees with the declared byte count).
type ClientError struct {
	Reason string
}

func (e *ClientError) Error() string { return "protocol: client error: " + e.Reason }

// NewClientError builds a ClientError with the given reason.
func NewClientError(reason string) *ClientError { return &ClientError{Reason: reason} }

// ServerError is an internal fault surfaced to the connection without
// closing it (spec §7).
type ServerError struct {
	Reason string
}

func (e *ServerError) Error() string { return "protocol: server error: " + e.Reason }

// NewServerError builds a ServerError with the given reason.
func NewServerError(reason string) *ServerError { return &ServerError{Reason: reason} }
