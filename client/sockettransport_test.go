package client_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/foomo/itemmodel/client"
	"github.com/foomo/itemmodel/pkg/handler"
	"github.com/foomo/itemmodel/pkg/repo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/nettest"
)

func BenchmarkSocketClientAndServerGetFlows(b *testing.B) {
	l := zaptest.NewLogger(b)
	socketServer := initSocketRepoServer(b, l, initRepo(b, l))
	socketClient := newSocketClient(b, socketServer.Addr().String())
	defer socketClient.Close()
	benchmarkServerAndClientGetFlows(b, 30, 100, socketClient)
}

func TestSocketClientClosed(t *testing.T) {
	l := zaptest.NewLogger(t)
	socketServer := initSocketRepoServer(t, l, initRepo(t, l))
	c := newSocketClient(t, socketServer.Addr().String())

	_, err := c.GetFlows(t.Context())
	require.NoError(t, err)

	c.Close()
	_, err = c.GetFlows(t.Context())
	assert.ErrorIs(t, err, client.ErrPoolDrained)
}

func TestSocketClientNoServer(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	address := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := newSocketClient(t, address)
	defer c.Close()
	_, err = c.GetFlows(t.Context())
	assert.ErrorIs(t, err, client.ErrNoConnection)
}

func TestNewSocketTransportInvalidPool(t *testing.T) {
	tests := map[string]struct {
		size        int
		waitTimeout time.Duration
	}{
		"zero size":        {size: 0, waitTimeout: time.Second},
		"negative size":    {size: -1, waitTimeout: time.Second},
		"zero timeout":     {size: 1, waitTimeout: 0},
		"negative timeout": {size: 1, waitTimeout: -time.Second},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			transport, err := client.NewSocketTransport("127.0.0.1:0", tc.size, tc.waitTimeout)
			require.ErrorIs(t, err, client.ErrInvalidPool)
			assert.Nil(t, transport)
		})
	}
}

func newSocketClient(tb testing.TB, address string) *client.Client {
	tb.Helper()
	transport, err := client.NewSocketTransport(address, 25, 100*time.Millisecond)
	require.NoError(tb, err)
	return client.New(transport)
}

func initSocketRepoServer(tb testing.TB, l *zap.Logger, r *repo.Repo) net.Listener {
	tb.Helper()
	h := handler.NewSocket(l, r)

	// listen on socket
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			// this blocks until connection or error
			conn, err := ln.Accept()
			if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
				return
			} else if err != nil {
				tb.Error("could not accept connection", err.Error())
				continue
			}

			// a goroutine handles conn so that the loop can accept other connections
			go func() {
				defer conn.Close()
				h.Serve(context.Background(), conn)
			}()
		}
	}()

	return ln
}
