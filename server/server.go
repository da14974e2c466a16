// Package server is the TCP transport collaborator spec.md §1 names as
// out of scope for the core but whose interface the core protocol
// package consumes: process bootstrap, TCP accept/event loop plumbing,
// and line framing at the transport layer (spec §1, §6). It is kept
// deliberately thin — every command/codec decision lives in protocol,
// every cache decision lives in the root package.
package server

import (
	"bufio"
	"context"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Krishna8167/tempuscache/v2/protocol"
)

// maxFrameBytes is the line framer's maximum frame length (spec.md §6:
// "Line framer... enforces a maximum frame length of 8192 bytes").
const maxFrameBytes = 8192

// Server accepts TCP connections and dispatches line-framed payloads to
// one protocol.Session per connection (spec.md §2: "the TCP
// collaborator delivers line-framed payloads to one C8 instance per
// connection").
//
// Grounded on nabbar-golib's socket-server-unix package
// (other_examples) for the accept-loop / goroutine-per-connection /
// graceful-shutdown shape, adapted from Unix domain sockets to TCP
// since spec.md §6 specifies a TCP wire protocol.
type Server struct {
	cache    protocol.Cache
	logger   *zap.SugaredLogger
	listener net.Listener
	conns    prometheus.Gauge
}

// Option configures optional Server behavior, following the same
// functional-options shape the root package's Option uses.
type Option func(*Server)

// WithConnectionsGauge wires a Prometheus gauge the server increments
// on accept and decrements on close, so a caller can track open
// connection count (SPEC_FULL.md's ambient metrics surface) alongside
// the cache's own hit/miss/eviction counters without this package
// depending on the root package's metrics type directly.
func WithConnectionsGauge(g prometheus.Gauge) Option {
	return func(s *Server) { s.conns = g }
}

// New constructs a Server bound to addr (e.g. ":11211", spec.md §6's
// default port).
func New(addr string, cache protocol.Cache, logger *zap.SugaredLogger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{cache: cache, logger: logger, listener: ln}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr returns the address the server is listening on, useful for
// tests that bind to ":0".
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve runs the accept loop until ctx is cancelled or the listener
// errors. Each accepted connection is handled in its own goroutine,
// supervised by an errgroup so Serve returns once every connection
// goroutine has exited — grounded on the same errgroup-supervision
// pattern the root package's Cache.Close uses, itself grounded on
// Voskan-arena-cache/nabbar-golib.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return s.listener.Close()
	})

	g.Go(func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					return err
				}
			}
			g.Go(func() error {
				s.handleConn(conn)
				return nil
			})
		}
	})

	return g.Wait()
}

// Close stops accepting new connections. Serve's own context-cancel
// goroutine is the usual way to trigger this; Close is exposed
// directly for callers that only hold the Server, not the context that
// started it.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.conns != nil {
		s.conns.Inc()
		defer s.conns.Dec()
	}

	session := protocol.NewSession(s.cache, s.logger)
	writer := bufio.NewWriter(conn)
	defer writer.Flush()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxFrameBytes), maxFrameBytes)

	for scanner.Scan() {
		resp, keepOpen := session.HandleLine(scanner.Bytes())
		if resp != nil {
			if _, err := writer.Write(resp); err != nil {
				s.logger.Warnw("write failed, closing connection", "remote", conn.RemoteAddr(), "err", err)
				return
			}
			if err := writer.Flush(); err != nil {
				s.logger.Warnw("flush failed, closing connection", "remote", conn.RemoteAddr(), "err", err)
				return
			}
		}
		if !keepOpen {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Debugw("connection read error", "remote", conn.RemoteAddr(), "err", err)
	}
}
