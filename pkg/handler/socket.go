package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/foomo/itemmodel/pkg/metrics"
	"github.com/foomo/itemmodel/pkg/repo"
	"github.com/foomo/itemmodel/responses"
	"go.uber.org/zap"
)

const (
	DefaultMaxRequestSize = 16 << 20
	// route plus length
	maxHeaderSize = 256
)

type (
	Socket struct {
		l              *zap.Logger
		repo           *repo.Repo
		maxRequestSize int
	}
	SocketOption func(*Socket)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// SocketWithMaxRequestSize caps the json length a client may announce
func SocketWithMaxRequestSize(v int) SocketOption {
	return func(o *Socket) {
		o.maxRequestSize = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewSocket returns a shiny new socket server
func NewSocket(l *zap.Logger, repo *repo.Repo, opts ...SocketOption) *Socket {
	inst := &Socket{
		l:              l.Named("socket"),
		repo:           repo,
		maxRequestSize: DefaultMaxRequestSize,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Serve answers requests on conn until the client closes it
func (h *Socket) Serve(ctx context.Context, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				if !errors.Is(err, io.EOF) {
					h.l.Error("panic in handle connection", zap.Error(err))
				}
			} else {
				h.l.Error("panic in handle connection", zap.String("error", fmt.Sprint(r)))
			}
		}
	}()

	remote := conn.RemoteAddr().String()
	h.l.Debug("socketServer.handleConnection", zap.String("remote", remote))
	metrics.NumSocketsGauge.WithLabelValues(remote).Inc()
	defer metrics.NumSocketsGauge.WithLabelValues(remote).Dec()

	var (
		headerBuffer [1]byte
		header       strings.Builder
	)
	for {
		// let us read with 1 byte steps on conn until we find "{"
		if _, readErr := conn.Read(headerBuffer[0:]); readErr != nil {
			h.l.Debug("looks like the client closed the connection", zap.Error(readErr))
			return
		}
		if headerBuffer[0] != '{' {
			if header.Len() >= maxHeaderSize {
				h.rejectHeader(conn, errors.New("header too long"))
				return
			}
			// adding to header byte by byte
			header.WriteByte(headerBuffer[0])
			continue
		}

		// json has started
		route, jsonLength, headerErr := h.extractRouteAndJSONLength(header.String())
		header.Reset()
		if headerErr != nil {
			h.rejectHeader(conn, headerErr)
			return
		}
		h.l.Debug("found json", zap.Int("length", jsonLength))

		jsonBytes := make([]byte, jsonLength)
		jsonBytes[0] = '{'
		if _, err := io.ReadFull(conn, jsonBytes[1:]); err != nil {
			h.l.Error("could not read json - giving up with this client connection", zap.Error(err))
			return
		}

		h.writeResponse(conn, h.execute(ctx, route, jsonBytes))
		// note: connection remains open
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *Socket) rejectHeader(conn net.Conn, headerErr error) {
	h.l.Error("invalid request could not read header", zap.Error(headerErr))
	encodedErr, encodingErr := encodeError(h.l, responses.NewError(ErrorCodeInvalidHeader, "invalid header "+headerErr.Error()))
	if encodingErr != nil {
		h.l.Error("could not respond to invalid request", zap.Error(encodingErr))
		return
	}
	h.writeResponse(conn, encodedErr)
}

// extractRouteAndJSONLength parses "route:length", the length counts the
// opening brace and must be within the max request size
func (h *Socket) extractRouteAndJSONLength(header string) (route Route, jsonLength int, err error) {
	headerParts := strings.Split(header, ":")
	if len(headerParts) != 2 {
		return "", 0, errors.New("invalid header")
	}
	jsonLength, err = strconv.Atoi(headerParts[1])
	switch {
	case err != nil:
		return "", 0, fmt.Errorf("could not parse length in header: %q", header)
	case jsonLength <= 0:
		return "", 0, fmt.Errorf("can not read empty json: %q", header)
	case jsonLength > h.maxRequestSize:
		return "", 0, fmt.Errorf("json length %d exceeds %d", jsonLength, h.maxRequestSize)
	}
	return Route(headerParts[0]), jsonLength, nil
}

func (h *Socket) execute(ctx context.Context, route Route, jsonBytes []byte) (reply []byte) {
	h.l.Debug("incoming json buffer", zap.Int("length", len(jsonBytes)))

	if route == RouteGetRepo {
		var b bytes.Buffer
		if err := h.repo.WriteRepoBytes(ctx, &b); err != nil {
			h.l.Error("could not write repo", zap.Error(err))
			reply, _ = encodeError(h.l, responses.NewError(ErrorCodeInternal, "internal error "+err.Error()))
			return reply
		}
		return b.Bytes()
	}

	reply, handlingError := handleRequest(ctx, h.l, h.repo, route, jsonBytes, sourceSocketServer)
	if handlingError != nil {
		h.l.Error("socketServer.execute failed", zap.Error(handlingError))
	}
	return reply
}

func (h *Socket) writeResponse(conn net.Conn, reply []byte) {
	headerBytes := []byte(strconv.Itoa(len(reply)))
	reply = append(headerBytes, reply...)
	h.l.Debug("replying", zap.Int("length", len(reply)))
	n, writeError := conn.Write(reply)
	if writeError != nil {
		h.l.Error("socketServer.writeResponse: could not write reply", zap.Error(writeError))
		return
	}
	if n < len(reply) {
		h.l.Error("socketServer.writeResponse: write too short",
			zap.Int("got", n),
			zap.Int("expected", len(reply)),
		)
		return
	}
	h.l.Debug("replied. waiting for next request on open connection")
}
