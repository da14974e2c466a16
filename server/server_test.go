package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (f *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Put(key string, value []byte) error {
	f.data[key] = value
	return nil
}

func startTestServer(t *testing.T) (net.Addr, func()) {
	t.Helper()
	cache := newFakeCache()
	srv, err := New("127.0.0.1:0", cache, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx)
		close(done)
	}()

	return srv.Addr(), func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func TestServerBasicStoreAndRetrieve(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("set key1 0 0 6\r\nvalue1\r\nget key1\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	require.Equal(t, "STORED\r\n", readLine(t, reader))
	require.Equal(t, "VALUE key1 0 6\r\n", readLine(t, reader))
	require.Equal(t, "value1\r\n", readLine(t, reader))
	require.Equal(t, "END\r\n", readLine(t, reader))
}

func TestServerQuitClosesConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("quit\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	require.Equal(t, 0, n)
	require.Error(t, err) // EOF: server closed the connection
}

func TestServerTracksActiveConnectionsGauge(t *testing.T) {
	cache := newFakeCache()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_connections_active"})
	srv, err := New("127.0.0.1:0", cache, nil, WithConnectionsGauge(gauge))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(gauge) == 1
	}, time.Second, time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(gauge) == 0
	}, time.Second, time.Millisecond)
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}
