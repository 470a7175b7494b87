package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/foomo/itemmodel/pkg/handler"
	"github.com/pkg/errors"
)

var ErrInvalidPool = errors.New("invalid connection pool")

type socketTransport struct {
	connPool *connectionPool
}

// NewSocketTransport a transport keeping up to connectionPoolSize connections
// to server open, requests wait at most waitTimeout for a free connection
func NewSocketTransport(server string, connectionPoolSize int, waitTimeout time.Duration) (Transport, error) {
	if connectionPoolSize < 1 {
		return nil, errors.Wrapf(ErrInvalidPool, "size must be positive, got %d", connectionPoolSize)
	}
	if waitTimeout <= 0 {
		return nil, errors.Wrapf(ErrInvalidPool, "wait timeout must be positive, got %s", waitTimeout)
	}
	return &socketTransport{
		connPool: newConnectionPool(server, connectionPoolSize, waitTimeout),
	}, nil
}

func (st *socketTransport) shutdown() {
	st.connPool.drain()
}

func (st *socketTransport) call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error {
	if st.connPool.isDrained() {
		return ErrPoolDrained
	}
	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "could not marshal request")
	}
	conn, err := st.connPool.get(ctx)
	if err != nil {
		return err
	}

	responseBytes, err := st.roundTrip(ctx, conn, route, jsonBytes)
	st.connPool.put(conn, err)
	if err != nil {
		return err
	}
	return decodeResponse(responseBytes, response)
}

func (st *socketTransport) roundTrip(ctx context.Context, conn net.Conn, route handler.Route, jsonBytes []byte) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	// write header result will be like route:2{}
	request := append([]byte(fmt.Sprintf("%s:%d", route, len(jsonBytes))), jsonBytes...)
	if _, err := conn.Write(request); err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}

	// read the length up to the opening bracket
	var (
		header []byte
		b      [1]byte
	)
	for {
		if _, err := io.ReadFull(conn, b[:]); err != nil {
			return nil, errors.Wrap(err, "an error occurred while reading the response")
		}
		if b[0] == '{' {
			break
		}
		header = append(header, b[0])
	}
	responseLength, err := strconv.Atoi(string(header))
	if err != nil || responseLength < 1 {
		return nil, errors.Errorf("could not read response length: %q", string(header))
	}
	responseBytes := make([]byte, responseLength)
	responseBytes[0] = '{'
	if _, err := io.ReadFull(conn, responseBytes[1:]); err != nil {
		return nil, errors.Wrap(err, "an error occurred while reading the response")
	}
	return responseBytes, nil
}
