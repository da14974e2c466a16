package protocol

import (
	"go.uber.org/zap"
)

/*
session.go is C8: the per-connection protocol state machine (spec.md
§3, §4.2). It owns exactly the tuple spec.md §3 describes — mode,
pending_set?, payload_buffer — as a two-variant sum type: CommandMode
and DataMode, replaced in place on transition rather than modeled as
two separate struct types switched on by a wrapper, per spec §9's
redesign note ("CommandMode and DataMode become a two-variant sum type
owned by the connection task; transitions replace the variant in
place").

No repo in the retrieval pack implements a textual wire protocol's
connection state machine directly; the goroutine-per-connection
ownership model (one Session, exclusively owned by its connection, no
shared mutable state with any other connection) is grounded on
nabbar-golib's socket-server-unix package (other_examples), which
documents exactly this "Connection Context... owned per goroutine"
shape for a different (Unix-socket) transport.
*/

// Mode is the session's current state.
type Mode int

const (
	ModeCommand Mode = iota
	ModeData
)

// Cache is the facade Session calls into. Kept as an interface (rather
// than importing the root tempuscache package directly) so protocol
// stays, per spec.md §2's component table, a consumer of the cache —
// not coupled to its concrete implementation.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Session is the per-connection state machine. It is not safe for
// concurrent use — spec.md §3: "Each Connection session is exclusively
// owned by its connection" — callers must serialize HandleLine calls
// per connection, which a one-goroutine-per-connection transport does
// naturally.
type Session struct {
	cache  Cache
	logger *zap.SugaredLogger

	mode    Mode
	pending Command // valid only while mode == ModeData
	payload []byte
}

// NewSession constructs a Session in CommandMode, the initial state per
// spec.md §4.2.
func NewSession(cache Cache, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{cache: cache, logger: logger}
}

// HandleLine processes one line of input (already stripped of its
// trailing \r\n by the transport's line framer) and returns the bytes
// to write back, if any, and whether the connection should remain
// open. A nil response with keepOpen true means "write nothing, keep
// reading" (the set-header case, per spec §4.2: "No wire response
// yet").
func (s *Session) HandleLine(line []byte) (response []byte, keepOpen bool) {
	switch s.mode {
	case ModeCommand:
		return s.handleCommandLine(line)
	default:
		return s.handleDataLine(line)
	}
}

func (s *Session) handleCommandLine(line []byte) ([]byte, bool) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return EncodeError(), true
	}

	switch cmd.Kind {
	case KindQuit:
		return nil, false

	case KindGet:
		return s.handleGet(cmd), true

	case KindSet:
		s.mode = ModeData
		s.pending = cmd
		s.payload = s.payload[:0]
		return nil, true

	default:
		return EncodeError(), true
	}
}

func (s *Session) handleGet(cmd Command) []byte {
	var out []byte
	for _, key := range cmd.Keys {
		if value, found := s.cache.Get(key); found {
			out = append(out, EncodeValue(key, value)...)
		}
	}
	out = append(out, EncodeEnd()...)
	return out
}

/*
handleDataLine implements spec.md §4.2's DataMode transition rule
exactly, plus one edge case the rule's three conditions (< bytes-1,
== bytes, > bytes) leave unstated: a buffer that lands at exactly
bytes-1 after appending L. That length means the separator `\n` that
was stripped between this frame and the next *is* the data's final
byte, so rather than waiting on a further line that the framer will
never deliver (§6: "each \n-terminated segment arrives as a separate
frame"), the separator is appended and the payload finalizes
immediately. This mirrors the spirit of §9's accepted limitation (only
`\n` is ever reinserted, never `\r`) rather than inventing new
semantics.
*/
func (s *Session) handleDataLine(line []byte) ([]byte, bool) {
	s.payload = append(s.payload, line...)
	want := s.pending.Bytes

	switch {
	case len(s.payload) == want:
		return s.finalizeSet(), true

	case len(s.payload) > want:
		s.resetToCommandMode()
		return EncodeErr(NewClientError("Data size exceeded")), true

	case len(s.payload) == want-1:
		s.payload = append(s.payload, '\n')
		return s.finalizeSet(), true

	default:
		s.payload = append(s.payload, '\n')
		return nil, true
	}
}

func (s *Session) finalizeSet() []byte {
	pending := s.pending
	value := make([]byte, len(s.payload))
	copy(value, s.payload)
	s.resetToCommandMode()

	if err := s.cache.Put(pending.Key, value); err != nil {
		s.logger.Warnw("set rejected", "key", pending.Key, "err", err)
		return EncodeErr(NewServerError("failed to store value"))
	}
	if pending.NoReply {
		return nil
	}
	return EncodeStored()
}

func (s *Session) resetToCommandMode() {
	s.mode = ModeCommand
	s.payload = nil
	s.pending = Command{}
}
